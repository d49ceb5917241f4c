package project

import (
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/vyPal/linprog/util"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "lpconf.yaml"

	// FormatVersion is written into new problem files.
	FormatVersion = "1.0.0"
	// SupportedFormats is the range of problem file formats this build reads.
	SupportedFormats = "^1.0.0"
)

type LPConf struct {
	Format      string   `yaml:"format"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Sense       string   `yaml:"sense"`
	Goal        string   `yaml:"goal"`
	Constraints []string `yaml:"constraints"`
}

// CreateDefault fills c with a small three variable sample problem.
func (c *LPConf) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProblem"
	}
	c.Format = FormatVersion
	c.Name = name
	c.Description = "A new linear program"
	c.Sense = "maximise"
	c.Goal = "9x + 2y + 4z"
	c.Constraints = []string{
		"x + y <= 9",
		"3x + y <= 18",
		"x <= 7",
		"y <= 6",
		"z <= 11",
		"x + y + z <= 10",
		"y + 2z <= 22",
		"y >= 1",
		"z >= 5",
	}
}

// Save writes c as YAML. An existing file is only replaced when overwrite
// is set or the user agrees to it; false is returned when nothing was written.
func (c *LPConf) Save(path string, overwrite bool) (bool, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return false, nil
		}
	}

	yml, err := yaml.Marshal(c)
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(path, yml, 0644); err != nil {
		return false, err
	}

	return true, nil
}

func (c *LPConf) CheckFormat() error {
	if c.Format == "" {
		return errors.New("problem file has no format version")
	}

	v, err := semver.NewVersion(c.Format)
	if err != nil {
		return errors.Wrapf(err, "invalid format version %q", c.Format)
	}

	constraint, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return err
	}

	if !constraint.Check(v) {
		return errors.Errorf("problem file format %s is not supported (want %s)", c.Format, SupportedFormats)
	}

	return nil
}

// ReadLPConf loads and format checks the problem file at path.
func ReadLPConf(path string) (LPConf, error) {
	var conf LPConf

	file, err := os.Open(path)
	if err != nil {
		return LPConf{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return LPConf{}, errors.Wrapf(err, "reading %s", path)
	}

	if err := conf.CheckFormat(); err != nil {
		return LPConf{}, errors.Wrap(err, path)
	}

	return conf, nil
}

// GetLPConf loads lpconf.yaml from dir.
func GetLPConf(dir string) (LPConf, error) {
	return ReadLPConf(filepath.Join(dir, FileName))
}
