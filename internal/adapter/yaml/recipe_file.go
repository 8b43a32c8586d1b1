// Package yaml reads and writes recipe files and provides the built-in
// preset recipes.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"pourover/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// yamlRecipe represents the raw YAML structure of a recipe file.
type yamlRecipe struct {
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description,omitempty"`
	TotalTime    int         `yaml:"total_time"`
	TargetPoints []yamlPoint `yaml:"target_points,flow"`
}

type yamlPoint struct {
	Time   float64 `yaml:"time"`
	Weight float64 `yaml:"weight"`
}

func (y yamlRecipe) toInput() domain.RecipeInput {
	in := domain.RecipeInput{
		Name:         y.Name,
		Description:  y.Description,
		TotalTime:    y.TotalTime,
		TargetPoints: make([]domain.WeightPoint, len(y.TargetPoints)),
	}
	for i, p := range y.TargetPoints {
		in.TargetPoints[i] = domain.WeightPoint{Time: p.Time, Weight: p.Weight}
	}
	return in
}

// ParseRecipes decodes a recipe file holding either a single recipe mapping
// or a sequence of recipes. Inputs are not validated beyond their shape.
func ParseRecipes(data []byte) ([]domain.RecipeInput, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse recipe file: %w", err)
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, errors.New("parse recipe file: empty document")
	}

	root := node.Content[0]
	var raw []yamlRecipe
	switch root.Kind {
	case yaml.MappingNode:
		var one yamlRecipe
		if err := root.Decode(&one); err != nil {
			return nil, fmt.Errorf("parse recipe file: %w", err)
		}
		raw = []yamlRecipe{one}
	case yaml.SequenceNode:
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse recipe file: %w", err)
		}
	default:
		return nil, errors.New("parse recipe file: expected a recipe or a list of recipes")
	}

	out := make([]domain.RecipeInput, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toInput())
	}
	return out, nil
}

// ParseRecipe decodes a file that must hold exactly one recipe.
func ParseRecipe(data []byte) (domain.RecipeInput, error) {
	all, err := ParseRecipes(data)
	if err != nil {
		return domain.RecipeInput{}, err
	}
	if len(all) != 1 {
		return domain.RecipeInput{}, fmt.Errorf("parse recipe file: expected one recipe, found %d", len(all))
	}
	return all[0], nil
}

// LoadFile reads and parses the recipe file at path.
func LoadFile(path string) ([]domain.RecipeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecipes(data)
}

// EncodeRecipe writes r as a single-recipe YAML document.
func EncodeRecipe(w io.Writer, r domain.Recipe) error {
	y := yamlRecipe{
		Name:         r.Name,
		Description:  r.Description,
		TotalTime:    r.TotalTime,
		TargetPoints: make([]yamlPoint, len(r.TargetPoints)),
	}
	for i, p := range r.TargetPoints {
		y.TargetPoints[i] = yamlPoint{Time: p.Time, Weight: p.Weight}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(y); err != nil {
		return err
	}
	return enc.Close()
}

// Presets returns the built-in recipes seeded into an empty catalogue.
func Presets() []domain.RecipeInput {
	presets, err := ParseRecipes(bytes.Clone(presetsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return presets
}
