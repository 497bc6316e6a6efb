package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for desktop mode
	CompactWidthBreakpoint = 100
	// CompactHeightBreakpoint is the minimum height for desktop mode
	CompactHeightBreakpoint = 25
	// SidebarWidthDesktop is the width of the successes column in desktop mode
	SidebarWidthDesktop = 45
	// HeaderHeight is the height of the header in rows
	HeaderHeight = 1
	// StatusHeight is the height of the status bar in rows
	StatusHeight = 1
	// FooterHeight is the height of the footer in rows
	FooterHeight = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop shows recent activity and successes side by side
	LayoutDesktop LayoutMode = iota
	// LayoutCompact shows one panel at a time
	LayoutCompact
)

// Layout defines the rectangular regions for all home screen components
type Layout struct {
	Mode    LayoutMode
	Area    uv.Rectangle
	Header  uv.Rectangle
	Content uv.Rectangle
	Main    uv.Rectangle
	Sidebar uv.Rectangle
	Status  uv.Rectangle
	Footer  uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles based on terminal dimensions
func CalculateLayout(width, height int) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint || height < CompactHeightBreakpoint {
		mode = LayoutCompact
	}

	area := uv.Rectangle{
		Max: uv.Position{X: width, Y: height},
	}

	// header | content | status | footer
	headerRect, rest := uv.SplitVertical(area, uv.Fixed(HeaderHeight))
	contentRect, rest2 := uv.SplitVertical(rest, uv.Fixed(rest.Dy()-StatusHeight-FooterHeight))
	statusRect, footerRect := uv.SplitVertical(rest2, uv.Fixed(StatusHeight))

	var mainRect, sidebarRect uv.Rectangle
	if mode == LayoutDesktop {
		sidebarWidth := SidebarWidthDesktop
		if contentRect.Dx()/3 < sidebarWidth {
			sidebarWidth = contentRect.Dx() / 3
		}

		mainRect, sidebarRect = uv.SplitHorizontal(contentRect, uv.Fixed(contentRect.Dx()-sidebarWidth))
		mainRect.Max.X -= 1 // 1-char gap so panel rules don't visually merge
	} else {
		mainRect = contentRect
		sidebarRect = uv.Rectangle{}
	}

	return Layout{
		Mode:    mode,
		Area:    area,
		Header:  headerRect,
		Content: contentRect,
		Main:    mainRect,
		Sidebar: sidebarRect,
		Status:  statusRect,
		Footer:  footerRect,
	}
}
