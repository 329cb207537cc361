package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/intellibridge-console/internal/domain"
)

func TestPreferenceRepo(t *testing.T) {
	ctx := context.Background()
	r := NewPreferenceRepo()

	_, ok, err := r.GetTheme(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SaveTheme(ctx, "s1", domain.ThemeDark))
	require.NoError(t, r.SaveTheme(ctx, "s1", domain.ThemeLight))

	th, ok, err := r.GetTheme(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.ThemeLight, th)
}

func TestPreferenceRepoConcurrent(t *testing.T) {
	ctx := context.Background()
	r := NewPreferenceRepo()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.SaveTheme(ctx, "s", domain.ThemeDark)
			_, _, _ = r.GetTheme(ctx, "s")
		}()
	}
	wg.Wait()

	th, _, _ := r.GetTheme(ctx, "s")
	assert.Equal(t, domain.ThemeDark, th)
}
