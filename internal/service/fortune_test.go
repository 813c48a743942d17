package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFortune_DrawFillsEveryField(t *testing.T) {
	f := NewFortune()

	for i := 0; i < 100; i++ {
		result := f.Draw()
		assert.NotEmpty(t, result.Grade)
		assert.NotEmpty(t, result.Description)
		assert.NotEmpty(t, result.Advice)
		assert.NotEmpty(t, result.Health)
		assert.NotEmpty(t, result.Love)
		assert.NotEmpty(t, result.Work)
		assert.NotEmpty(t, result.LuckyItem)
		assert.NotEmpty(t, result.LuckyColor)
		assert.GreaterOrEqual(t, result.LuckyNumber, 1)
		assert.LessOrEqual(t, result.LuckyNumber, 9)
		assert.NotZero(t, result.Color)
	}
}

func TestFortune_ConcurrentDraws(t *testing.T) {
	f := NewFortune()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				result := f.Draw()
				assert.NotEmpty(t, result.Grade)
			}
		}()
	}
	wg.Wait()
}

func TestFortune_AllGradesReachable(t *testing.T) {
	f := NewFortune()

	seen := make(map[string]struct{})
	for i := 0; i < 5000; i++ {
		seen[f.Draw().Grade] = struct{}{}
	}

	for _, grade := range fortuneGrades {
		assert.Contains(t, seen, grade.name)
	}
}
