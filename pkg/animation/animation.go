// Package animation derives renderer entrance animations from highlights.
package animation

import "slidechoreo/pkg/model"

// Options controls a derived animation. Lead is how many frames before the
// highlight the animation starts.
type Options struct {
	Duration int
	Lead     int
	Easing   model.Easing
}

// FromHighlight derives an entrance animation for h. The start frame never goes below zero.
func FromHighlight(h model.Highlight, typ model.AnimationType, opts Options) model.Animation {
	return At(h.BlockID, typ, h.StartFrame-opts.Lead, opts)
}

// At builds an animation for blockID starting at frame, floored at zero.
func At(blockID string, typ model.AnimationType, frame int, opts Options) model.Animation {
	easing := opts.Easing
	if easing == "" {
		easing = model.EaseOut
	}
	return model.Animation{
		BlockID:        blockID,
		Type:           typ,
		StartFrame:     max(frame, 0),
		DurationFrames: opts.Duration,
		Easing:         easing,
	}
}

// BulletReveal is a staggered fade for the child bullets of a block.
func BulletReveal(blockID string, frame, duration, stagger int) model.Animation {
	a := At(blockID, model.AnimFadeIn, frame, Options{Duration: duration})
	a.Stagger = &stagger
	return a
}
