package choreographer

import (
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/model"
)

// Intro fades the welcome caption in at the start of the slide. It has no highlights.
type Intro struct{}

// Choreograph implements Choreographer.
func (Intro) Choreograph(in Input) (Result, error) {
	c := record(in, "intro_welcome")
	c.Animations = append(c.Animations,
		animation.At("intro_caption", model.AnimFadeIn, 0, animation.Options{Duration: 60}))
	return Result{Choreography: c}, nil
}
