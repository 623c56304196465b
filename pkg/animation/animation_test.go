package animation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidechoreo/pkg/model"
)

func TestFromHighlight(t *testing.T) {
	tests := []struct {
		name  string
		start int
		opts  Options
		want  model.Animation
	}{
		{
			name:  "Lead",
			start: 100,
			opts:  Options{Duration: 40, Lead: 18},
			want:  model.Animation{BlockID: "blk", Type: model.AnimSlideInLeft, StartFrame: 82, DurationFrames: 40, Easing: model.EaseOut},
		},
		{
			name:  "Lead_Clamped",
			start: 10,
			opts:  Options{Duration: 45, Lead: 20},
			want:  model.Animation{BlockID: "blk", Type: model.AnimSlideInLeft, StartFrame: 0, DurationFrames: 45, Easing: model.EaseOut},
		},
		{
			name:  "Easing_Override",
			start: 50,
			opts:  Options{Duration: 40, Easing: model.Linear},
			want:  model.Animation{BlockID: "blk", Type: model.AnimSlideInLeft, StartFrame: 50, DurationFrames: 40, Easing: model.Linear},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := model.Highlight{BlockID: "blk", StartFrame: tt.start, EndFrame: tt.start + 30}
			assert.Equal(t, tt.want, FromHighlight(h, model.AnimSlideInLeft, tt.opts))
		})
	}
}

func TestBulletReveal(t *testing.T) {
	a := BulletReveal("right_bullets", -3, 30, 10)
	assert.Equal(t, 0, a.StartFrame)
	assert.Equal(t, model.AnimFadeIn, a.Type)
	require.NotNil(t, a.Stagger)
	assert.Equal(t, 10, *a.Stagger)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blockId":"right_bullets","type":"fadeIn","startFrame":0,"durationFrames":30,"easing":"easeOut","stagger":10}`, string(data))

	plain, err := json.Marshal(At("x", model.AnimScaleIn, 5, Options{Duration: 30}))
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "stagger")
}
