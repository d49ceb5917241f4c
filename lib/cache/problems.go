package cache

import (
	"encoding/gob"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vyPal/linprog/lib/project"
)

const indexFile = "cache.bin"

// ProblemCache keeps cloned repositories of problem files under
// BaseDir/<host>/<path>/<branch> and an index of what they contain.
type ProblemCache struct {
	RootDir string
	BaseDir string
	Sets    []ProblemSet
}

type ProblemSet struct {
	Identifier string
	Version    string
	Path       string
	Problems   []Problem
}

type Problem struct {
	Name string
	File string
}

func DefaultRoot() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "lib", "linprog"), nil
}

// Init prepares the cache directories under root, or under DefaultRoot
// when root is empty.
func (p *ProblemCache) Init(root string) error {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return err
		}
	}

	base := filepath.Join(root, "problems")
	if err := os.MkdirAll(base, 0700); err != nil {
		return err
	}

	p.RootDir = root
	p.BaseDir = base
	p.Sets = make([]ProblemSet, 0)

	return nil
}

// PrepURL turns "owner/repo", "host/owner/repo" or a full URL, each with an
// optional "@branch", into a clone URL and branch name.
func PrepURL(raw string) (u, ver string, e error) {
	version := "main"
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		raw, version = raw[:i], raw[i+1:]
		if version == "" {
			return "", "", errors.Errorf("empty branch name in %q", raw+"@")
		}
	} else {
		color.Yellow("Branch name not specified, defaulting to 'main'")
	}

	if !strings.Contains(raw, "://") {
		if strings.Count(raw, "/") == 1 {
			raw = "github.com/" + raw
		}
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if parsed.Hostname() == "" || strings.Trim(parsed.Path, "/") == "" {
		return "", "", errors.Errorf("%q does not name a repository", raw)
	}

	return strings.TrimSuffix(raw, "/"), version, nil
}

func Identifier(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	return strings.TrimSuffix(u, ".git")
}

func (p *ProblemCache) setDir(ident, version string) string {
	return filepath.Join(p.BaseDir, filepath.FromSlash(ident), version)
}

// Install clones the repository at raw into the cache and indexes the
// problem files in it.
func (p *ProblemCache) Install(raw string) (ProblemSet, error) {
	u, version, err := PrepURL(raw)
	if err != nil {
		return ProblemSet{}, err
	}
	ident := Identifier(u)
	dir := p.setDir(ident, version)

	if _, err := git.PlainOpen(dir); err == nil {
		return ProblemSet{}, errors.Wrapf(git.ErrRepositoryAlreadyExists, "%s@%s is already fetched, update it instead", ident, version)
	}

	_, statErr := os.Stat(dir)
	created := os.IsNotExist(statErr)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return ProblemSet{}, err
	}

	logrus.WithFields(logrus.Fields{"url": u, "branch": version, "dir": dir}).Debug("cloning problem set")
	_, err = git.PlainClone(dir, false, &git.CloneOptions{
		URL:           u,
		SingleBranch:  true,
		Depth:         1,
		ReferenceName: plumbing.NewBranchReferenceName(version),
	})
	if err != nil {
		if created {
			os.RemoveAll(dir)
		}
		return ProblemSet{}, errors.Wrapf(err, "cloning %s", u)
	}

	return p.register(ident, version, dir)
}

// Update pulls the latest commits of an installed problem set.
func (p *ProblemCache) Update(ident, version string) (ProblemSet, error) {
	dir := p.setDir(ident, version)

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return ProblemSet{}, errors.Wrapf(err, "opening %s", dir)
	}

	w, err := repo.Worktree()
	if err != nil {
		return ProblemSet{}, err
	}

	err = w.Pull(&git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(version),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return ProblemSet{}, errors.Wrapf(err, "pulling %s", ident)
	}

	return p.register(ident, version, dir)
}

func (p *ProblemCache) register(ident, version, dir string) (ProblemSet, error) {
	problems, err := IndexDir(dir)
	if err != nil {
		return ProblemSet{}, err
	}

	set := ProblemSet{
		Identifier: ident,
		Version:    version,
		Path:       dir,
		Problems:   problems,
	}

	replaced := false
	for i := range p.Sets {
		if p.Sets[i].Identifier == ident && p.Sets[i].Version == version {
			p.Sets[i] = set
			replaced = true
		}
	}
	if !replaced {
		p.Sets = append(p.Sets, set)
	}

	return set, p.Save()
}

// IndexDir lists the problem files below dir. YAML files that are not
// problem files are skipped.
func IndexDir(dir string) ([]Problem, error) {
	problems := []Problem{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		conf, err := project.ReadLPConf(path)
		if err != nil {
			logrus.WithError(err).WithField("file", path).Debug("skipping file")
			return nil
		}

		name := conf.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ext)
		}
		problems = append(problems, Problem{Name: name, File: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}

// DeepScan rebuilds the index from every cloned repository under BaseDir.
func (p *ProblemCache) DeepScan() error {
	p.Sets = make([]ProblemSet, 0)

	return filepath.WalkDir(p.BaseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			return nil
		}

		rel, err := filepath.Rel(p.BaseDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		split := strings.Split(rel, "/")
		version := split[len(split)-1]
		ident := strings.TrimSuffix(rel, "/"+version)

		problems, err := IndexDir(path)
		if err != nil {
			return err
		}

		p.Sets = append(p.Sets, ProblemSet{
			Identifier: ident,
			Version:    version,
			Path:       path,
			Problems:   problems,
		})
		return filepath.SkipDir
	})
}

// Scan loads the saved index. Without one it falls back to a deep scan
// when deepOnFail is set.
func (p *ProblemCache) Scan(deepOnFail bool) error {
	cacheFile, err := os.Open(filepath.Join(p.RootDir, indexFile))
	if err != nil {
		if os.IsNotExist(err) && deepOnFail {
			logrus.Debug("cache index not found, performing deep scan")
			if err := p.DeepScan(); err != nil {
				return err
			}
			return p.Save()
		}
		return err
	}
	defer cacheFile.Close()

	return gob.NewDecoder(cacheFile).Decode(&p.Sets)
}

func (p *ProblemCache) Save() error {
	cacheFile, err := os.Create(filepath.Join(p.RootDir, indexFile))
	if err != nil {
		return err
	}
	defer cacheFile.Close()

	return gob.NewEncoder(cacheFile).Encode(p.Sets)
}

// Find resolves a problem by name, optionally qualified with the set it
// belongs to ("github.com/owner/repo/name").
func (p *ProblemCache) Find(name string) (Problem, bool) {
	for _, set := range p.Sets {
		for _, problem := range set.Problems {
			if problem.Name == name || set.Identifier+"/"+problem.Name == name {
				return problem, true
			}
		}
	}
	return Problem{}, false
}
