package lib

import (
	"os"
	"path"
	"sort"
	"strings"
)

type Program struct {
	Name   string
	Path   string
	Source string
}

// ProgramResult is the outcome of parsing one program of a batch. Err is set
// instead of AST when the program does not tokenize or parse.
type ProgramResult struct {
	Program
	AST Node
	Err error
}

// ReadProgramsDir loads every regular file of dir, sorted by file name.
// Hidden files are skipped.
func ReadProgramsDir(dir string) ([]Program, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	programs := []Program{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		prog, err := ReadProgramFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}

	sort.Slice(programs, func(i, j int) bool {
		return programs[i].Path < programs[j].Path
	})
	return programs, nil
}

func ReadProgramFile(filePath string) (Program, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return Program{}, err
	}
	return Program{
		Name:   programNameFromPath(filePath),
		Path:   filePath,
		Source: string(bytes),
	}, nil
}

func programNameFromPath(filePath string) string {
	_, fileName := path.Split(filePath)
	parts := strings.Split(fileName, ".")
	return parts[0]
}

// ParseDir parses every program in dir. A program that fails to parse is
// reported in its ProgramResult and does not stop the batch; a bad grammar
// or unreadable directory does.
func (e *Engine) ParseDir(grammar string, dir string) ([]ProgramResult, error) {
	if _, err := e.compile(grammar); err != nil {
		return nil, err
	}

	programs, err := ReadProgramsDir(dir)
	if err != nil {
		return nil, err
	}

	results := []ProgramResult{}
	failed := 0
	for _, prog := range programs {
		ast, err := e.Parse(grammar, prog.Source)
		if err != nil {
			failed++
			e.log.WithField("program", prog.Path).WithError(err).Info("Program did not parse")
		}
		results = append(results, ProgramResult{Program: prog, AST: ast, Err: err})
	}

	e.log.WithField("dir", dir).WithField("programs", len(results)).WithField("failed", failed).Debug("Parsed program batch")
	return results, nil
}
