package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/depctl/pkg/engine"
)

// Manifest is a YAML document declaring components and their dependencies.
type Manifest struct {
	// Components are declared in file order.
	Components []ComponentSpec `yaml:"components" validate:"dive"`

	// Path is the file the manifest was loaded from, empty for in-memory manifests.
	Path string `yaml:"-"`
}

// ComponentSpec declares the direct dependencies of one component.
type ComponentSpec struct {
	Name      string   `yaml:"name" validate:"required,component"`
	DependsOn []string `yaml:"depends_on" validate:"dive,required,component"`
}

// componentTag is the validation tag applying the engine's component name rules.
const componentTag = "component"

// Loader reads and validates manifests.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a new manifest loader.
func NewLoader() *Loader {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Only fails for an empty tag or a nil function.
	_ = v.RegisterValidation(componentTag, validateComponentName)

	return &Loader{
		validate: v,
	}
}

func validateComponentName(fl validator.FieldLevel) bool {
	return engine.ValidateName(fl.Field().String()) == nil
}

// LoadFromFile loads a manifest from a YAML file.
func (l *Loader) LoadFromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	m, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	return m, nil
}

// LoadFromBytes parses and validates a manifest. Unknown keys are rejected.
func (l *Loader) LoadFromBytes(data []byte) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	if err := l.Validate(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	return &m, nil
}

// Validate checks component names and rejects components declared more than once.
func (l *Loader) Validate(m *Manifest) error {
	if err := l.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return describeValidationErrors(verrs)
		}
		return err
	}

	seen := make(map[string]bool, len(m.Components))
	for _, c := range m.Components {
		if seen[c.Name] {
			return fmt.Errorf("component %s is declared more than once", c.Name)
		}
		seen[c.Name] = true
	}

	return nil
}

// Apply declares every component on eng in file order and stops at the first rejection.
// Components declared before the rejection stay declared.
func (m *Manifest) Apply(eng *engine.Engine) error {
	for _, c := range m.Components {
		if res := eng.Declare(c.Name, c.DependsOn); res.Err != nil {
			return fmt.Errorf("failed to declare %s: %w", c.Name, res.Err)
		}
	}
	return nil
}

// Names returns the declared component names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Components))
	for _, c := range m.Components {
		names = append(names, c.Name)
	}
	return names
}

func describeValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Manifest.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: component name is required", field))
		case componentTag:
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, componentNameProblem(fmt.Sprint(fe.Value()))))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// componentNameProblem describes why the engine refuses name.
func componentNameProblem(name string) string {
	var e *engine.EngineError
	if errors.As(engine.ValidateName(name), &e) {
		return e.Message
	}
	return fmt.Sprintf("invalid component name %s", name)
}
