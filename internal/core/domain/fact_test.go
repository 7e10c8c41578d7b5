package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		in      string
		want    Answer
		wantErr bool
	}{
		{"yes", Yes, false},
		{"Y", Yes, false},
		{" no ", No, false},
		{"n", No, false},
		{"maybe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnswer(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsValue(t *testing.T) {
	t.Run("empty selection is none", func(t *testing.T) {
		v := OptionsValue(nil)
		assert.Equal(t, "no", v.Text)
		assert.Equal(t, []string{None}, v.Options)
		assert.True(t, v.IsList())
	})

	t.Run("none sentinel", func(t *testing.T) {
		v := OptionsValue([]string{None})
		assert.Equal(t, "no", v.Text)
	})

	t.Run("selection aggregates to yes", func(t *testing.T) {
		sel := []string{"High Fever"}
		v := OptionsValue(sel)
		assert.Equal(t, "yes", v.Text)
		assert.Equal(t, "High Fever", v.String())

		sel[0] = "changed"
		assert.Equal(t, []string{"High Fever"}, v.Options)
	})
}

func TestWorkingMemory_SetOverwrites(t *testing.T) {
	m := NewWorkingMemory()
	m.Set("fatigue", AnswerValue(No))
	m.Set("fever", AnswerValue(No))
	m.Set("fatigue", AnswerValue(Yes))

	v, ok := m.Get("fatigue")
	require.True(t, ok)
	assert.Equal(t, "yes", v.Text)
	assert.True(t, m.Equals("fatigue", "yes"))
	assert.False(t, m.Equals("missing", ""))

	facts := m.Facts()
	require.Len(t, facts, 2)
	assert.Equal(t, "fatigue", facts[0].Key)
	assert.Equal(t, "fever", facts[1].Key)
}

func TestWorkingMemory_AffirmedIsMonotone(t *testing.T) {
	m := NewWorkingMemory()
	m.RecordAffirmed("headache")
	m.RecordAffirmed("fatigue")
	assert.Equal(t, 2, m.AffirmedCount())

	m.RecordAffirmed("headache")
	m.RecordAffirmed("")
	assert.Equal(t, 2, m.AffirmedCount())
	assert.Equal(t, []string{"fatigue", "headache"}, m.Affirmed())
	assert.True(t, m.IsAffirmed("fatigue"))

	set := m.AffirmedSet()
	set.Add("extra")
	assert.False(t, m.IsAffirmed("extra"))
}

func TestSymptomSet_Sorted(t *testing.T) {
	s := NewSymptomSet("b", "a", "", "b")
	assert.Len(t, s, 2)
	assert.Equal(t, []string{"a", "b"}, s.Sorted())
}
