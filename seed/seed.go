// Package seed holds the canonical animal and quiz catalog.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/faunapedia/api-go/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Animal struct {
	Name           string          `yaml:"name"`
	ScientificName string          `yaml:"scientificName"`
	Description    string          `yaml:"description"`
	ImageURL       string          `yaml:"imageUrl"`
	Category       models.Category `yaml:"category"`
	NativeRegions  []models.Region `yaml:"nativeRegions"`
}

// Question links to its animal by name; the id is looked up when seeding.
type Question struct {
	Question      string            `yaml:"question"`
	Options       []string          `yaml:"options"`
	CorrectAnswer int               `yaml:"correctAnswer"`
	Animal        string            `yaml:"animal"`
	Difficulty    models.Difficulty `yaml:"difficulty"`
}

type Catalog struct {
	Animals   []Animal   `yaml:"animals"`
	Questions []Question `yaml:"questions"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	names := make(map[string]bool, len(c.Animals))
	for i, a := range c.Animals {
		if a.Name == "" {
			return fmt.Errorf("animal %d: missing name", i)
		}
		if names[a.Name] {
			return fmt.Errorf("animal %q: duplicate name", a.Name)
		}
		names[a.Name] = true
		if !a.Category.Valid() {
			return fmt.Errorf("animal %q: unknown category %q", a.Name, a.Category)
		}
	}

	texts := make(map[string]bool, len(c.Questions))
	for i := range c.Questions {
		q := c.Questions[i].Model()
		if q.Question == "" {
			return fmt.Errorf("question %d: missing text", i)
		}
		if texts[q.Question] {
			return fmt.Errorf("question %q: duplicate text", q.Question)
		}
		texts[q.Question] = true
		if !q.Valid() {
			return fmt.Errorf("question %q: needs %d options and a correct index among them", q.Question, models.QuizOptionCount)
		}
		switch q.Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return fmt.Errorf("question %q: unknown difficulty %q", q.Question, q.Difficulty)
		}
	}
	return nil
}

func (a Animal) Model() models.Animal {
	return models.Animal{
		Name:           a.Name,
		ScientificName: a.ScientificName,
		Description:    a.Description,
		ImageURL:       a.ImageURL,
		Category:       a.Category,
		NativeRegions:  append([]models.Region{}, a.NativeRegions...),
	}
}

// Model converts the entry without its animal link. Difficulty defaults to
// medium.
func (q Question) Model() models.QuizQuestion {
	difficulty := q.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	return models.QuizQuestion{
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
		Difficulty:    difficulty,
	}
}
