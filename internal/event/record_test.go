package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("complete record passes", func(t *testing.T) {
		r := Record{
			Name:        Text("Game Night"),
			Start:       Instant(start),
			End:         Instant(end),
			Location:    Text("Community Hall"),
			Description: Text("Bring your own snacks."),
		}

		valid, problems := r.Validate()
		require.Empty(t, problems)
		assert.Equal(t, "Game Night", valid.Name)
		assert.Equal(t, start, valid.Start)
		assert.Equal(t, end, valid.End)
		require.NotNil(t, valid.Location)
		assert.Equal(t, "Community Hall", *valid.Location)
		assert.Equal(t, "Bring your own snacks.", valid.Description)
	})

	t.Run("location is optional", func(t *testing.T) {
		r := Record{
			Name:        Text("Game Night"),
			Start:       Instant(start),
			End:         Instant(end),
			Description: Text("Bring your own snacks."),
		}

		valid, problems := r.Validate()
		require.Empty(t, problems)
		assert.Nil(t, valid.Location)
	})

	t.Run("one problem per missing field", func(t *testing.T) {
		r := Record{
			Start:       Instant(start),
			Description: Text("desc"),
		}

		_, problems := r.Validate()
		require.Len(t, problems, 2)
		assert.Contains(t, problems[0], "name")
		assert.Contains(t, problems[1], "end time")
	})

	t.Run("all-absent record reports every required field", func(t *testing.T) {
		_, problems := Record{}.Validate()
		assert.Len(t, problems, 4)
	})

	t.Run("empty string is present, not absent", func(t *testing.T) {
		r := Record{
			Name:        Text(""),
			Start:       Instant(start),
			End:         Instant(end),
			Description: Text(""),
		}

		_, problems := r.Validate()
		assert.Empty(t, problems)
	})
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Record{}.IsEmpty())
	assert.False(t, Record{Name: Text("x")}.IsEmpty())
	assert.False(t, Record{Description: Text("")}.IsEmpty())
}
