//go:build windows

package capture

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"screen-ocr-ollama/screenshot"
)

// Overlay selection state. The win32 message loop runs on the calling
// goroutine, so a single in-flight selection at a time is assumed.
var (
	overlayHwnd     win.HWND
	overlayOrigin   struct{ x, y int32 }
	dragActive      bool
	dragX0, dragY0  int32
	dragX1, dragY1  int32
	selectionResult chan screenshot.Region
)

const minSelectionPx = 5

const (
	wsExLayered = 0x00080000
	lwaAlpha    = 0x00000002
)

var (
	user32                     = syscall.NewLazyDLL("user32.dll")
	setLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	gdi32                      = syscall.NewLazyDLL("gdi32.dll")
	createPen                  = gdi32.NewProc("CreatePen")
	rectangle                  = gdi32.NewProc("Rectangle")
)

// selectRegion shows a translucent full-screen overlay over the virtual
// screen and tracks a pointer drag. Esc or a too-small drag cancels.
func selectRegion() (screenshot.Region, bool, error) {
	vx := win.GetSystemMetrics(win.SM_XVIRTUALSCREEN)
	vy := win.GetSystemMetrics(win.SM_YVIRTUALSCREEN)
	vw := win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN)
	vh := win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)

	overlayOrigin.x, overlayOrigin.y = vx, vy
	selectionResult = make(chan screenshot.Region, 1)
	dragActive = false

	// Unique class name per selection avoids clashes with a stale class
	// from an earlier run.
	className := syscall.StringToUTF16Ptr(fmt.Sprintf("OCROverlay_%d", time.Now().UnixNano()))
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		HbrBackground: win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH)),
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		return screenshot.Region{}, false, fmt.Errorf("failed to register overlay window class")
	}
	defer win.UnregisterClass(className)

	overlayHwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST|wsExLayered,
		className,
		syscall.StringToUTF16Ptr("Select OCR Region"),
		win.WS_POPUP|win.WS_VISIBLE,
		vx, vy, vw, vh,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if overlayHwnd == 0 {
		return screenshot.Region{}, false, fmt.Errorf("failed to create overlay window")
	}

	// Dim the screen instead of blacking it out, like the tk overlay the
	// tool replaced.
	setLayeredWindowAttributes.Call(uintptr(overlayHwnd), 0, 64, lwaAlpha)

	win.ShowWindow(overlayHwnd, win.SW_SHOW)
	win.SetForegroundWindow(overlayHwnd)
	win.SetFocus(overlayHwnd)
	win.UpdateWindow(overlayHwnd)

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)

		select {
		case region := <-selectionResult:
			win.DestroyWindow(overlayHwnd)
			return region, true, nil
		default:
		}
	}

	win.DestroyWindow(overlayHwnd)
	return screenshot.Region{}, false, nil
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		dragActive = true
		dragX0 = int32(win.LOWORD(uint32(lParam)))
		dragY0 = int32(win.HIWORD(uint32(lParam)))
		dragX1, dragY1 = dragX0, dragY0
		win.InvalidateRect(hwnd, nil, true)
		return 0

	case win.WM_MOUSEMOVE:
		if dragActive {
			dragX1 = int32(win.LOWORD(uint32(lParam)))
			dragY1 = int32(win.HIWORD(uint32(lParam)))
			win.InvalidateRect(hwnd, nil, true)
			win.UpdateWindow(hwnd)
		}
		return 0

	case win.WM_LBUTTONUP:
		if dragActive {
			win.ReleaseCapture()
			dragActive = false
			dragX1 = int32(win.LOWORD(uint32(lParam)))
			dragY1 = int32(win.HIWORD(uint32(lParam)))

			left := minInt32(dragX0, dragX1)
			top := minInt32(dragY0, dragY1)
			width := absInt32(dragX1 - dragX0)
			height := absInt32(dragY1 - dragY0)

			if width > minSelectionPx && height > minSelectionPx {
				selectionResult <- screenshot.Region{
					X:      int(overlayOrigin.x + left),
					Y:      int(overlayOrigin.y + top),
					Width:  int(width),
					Height: int(height),
				}
			} else {
				// Treat a click without a drag as a cancel.
				win.PostQuitMessage(0)
			}
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		if dragActive {
			pen, _, _ := createPen.Call(0, 2, 0x0000FF) // solid, red in BGR
			oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
			oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))

			rectangle.Call(uintptr(hdc),
				uintptr(minInt32(dragX0, dragX1)), uintptr(minInt32(dragY0, dragY1)),
				uintptr(maxInt32(dragX0, dragX1)), uintptr(maxInt32(dragY0, dragY1)))

			win.SelectObject(hdc, oldPen)
			win.SelectObject(hdc, oldBrush)
			win.DeleteObject(win.HGDIOBJ(pen))
		}
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			win.PostQuitMessage(0)
		}
		return 0

	case win.WM_NCHITTEST:
		// Every point is client area so the overlay receives mouse events.
		return uintptr(win.HTCLIENT)

	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
