package assert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// EqualToFixture compares text with the fixture file
// fixtures/<test name>_<fixtureName>. With GEN_FIXTURE=true the fixture is
// written instead and the comparison is skipped.
func (a *Assert) EqualToFixture(fixtureName string, text string) {
	a.T.Helper()
	fixturePath := a.fixturePath(fixtureName)

	if os.Getenv("GEN_FIXTURE") == "true" {
		a.NoError(os.MkdirAll(filepath.Dir(fixturePath), 0755), "Failed to create fixture directory")
		a.NoError(os.WriteFile(fixturePath, []byte(text), 0644), "Failed to write fixture file")
		return
	}

	expected, err := os.ReadFile(fixturePath)
	if !a.NoError(err, "Failed to read fixture file") {
		return
	}
	a.Equal(string(expected), text, "Result does not match fixture %s", fixturePath)
}

// EqualToJSONFixture marshals result as indented JSON and compares it with the
// fixture <fixtureName>.json.
func (a *Assert) EqualToJSONFixture(fixtureName string, result any) {
	a.T.Helper()
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if !a.NoError(err, "Failed to marshal result to JSON") {
		return
	}
	a.EqualToFixture(fixtureName+".json", string(resultJSON))
}

func (a *Assert) fixturePath(fixtureName string) string {
	name := strings.ReplaceAll(a.T.Name(), "/", "_")
	return filepath.Join("fixtures", fmt.Sprintf("%s_%s", name, fixtureName))
}
