package yaml

import (
	"testing"
)

// FuzzParseRecipes feeds random and malformed documents to the parser to
// catch panics.
//
// Run with: go test -fuzz=FuzzParseRecipes -fuzztime=30s
func FuzzParseRecipes(f *testing.F) {
	f.Add(presetsYAML)
	f.Add([]byte(`name: solo
total_time: 60
target_points: [{time: 0, weight: 0}, {time: 60, weight: 100}]
`))
	f.Add([]byte(`- {}`))
	f.Add([]byte(`target_points: [{time: .nan, weight: -.inf}]`))
	f.Add([]byte(`&a [*a]`))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		recipes, err := ParseRecipes(data)
		if err != nil {
			return
		}
		for _, r := range recipes {
			if r.TargetPoints == nil {
				t.Errorf("parsed recipe %q has nil points", r.Name)
			}
		}
	})
}
