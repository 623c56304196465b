package highlight

import "slidechoreo/pkg/model"

// Anchor moves the block start and every segment start to frame.
func Anchor(h *model.Highlight, frame int) {
	h.StartFrame = frame
	for i := range h.Segments {
		h.Segments[i].StartFrame = frame
	}
	Clamp(h)
}

// AnchorBlock moves only the block start, leaving segment timing intact.
func AnchorBlock(h *model.Highlight, frame int) {
	h.StartFrame = frame
	Clamp(h)
}

// Truncate moves the block end and every segment end to frame.
func Truncate(h *model.Highlight, frame int) {
	h.EndFrame = frame
	for i := range h.Segments {
		h.Segments[i].EndFrame = frame
	}
	Clamp(h)
}

// Nudge pulls the block start to no later than offset frames before event.
func Nudge(h *model.Highlight, event, offset int) {
	h.StartFrame = max(min(h.StartFrame, event-offset), 0)
	Clamp(h)
}

// FloorSegments raises every segment start below frame to frame.
func FloorSegments(h *model.Highlight, frame int) {
	for i := range h.Segments {
		h.Segments[i].StartFrame = max(h.Segments[i].StartFrame, frame)
	}
	Clamp(h)
}

// Clamp raises any end frame that precedes its start.
func Clamp(h *model.Highlight) {
	h.EndFrame = max(h.EndFrame, h.StartFrame)
	for i := range h.Segments {
		seg := &h.Segments[i]
		seg.EndFrame = max(seg.EndFrame, seg.StartFrame)
	}
}
