package fsdemo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrUnknownActivity is returned for activity names that are not registered.
var ErrUnknownActivity = errors.New("unknown activity")

// Activities returns the registered activities in tour order.
func Activities() []Activity {
	return append([]Activity(nil), activities...)
}

// Names returns the activity names in tour order.
func Names() []string {
	names := make([]string, len(activities))
	for i, a := range activities {
		names[i] = a.Name
	}
	return names
}

// Lookup returns the activity registered under name.
func Lookup(name string) (Activity, error) {
	for _, a := range activities {
		if a.Name == name {
			return a, nil
		}
	}
	return Activity{}, fmt.Errorf("%w %q, known: %s", ErrUnknownActivity, name, strings.Join(Names(), ", "))
}

// Run executes the named activities in order, each one immediately after
// the previous one and its callbacks have finished.
func Run(ctx context.Context, env *Env, names ...string) error {
	selected := make([]Activity, 0, len(names))
	for _, name := range names {
		a, err := Lookup(name)
		if err != nil {
			return err
		}
		selected = append(selected, a)
	}

	s, err := newSession(ctx, env)
	if err != nil {
		return err
	}
	defer s.close()

	for _, a := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.run(a)
		s.wait()
	}
	return nil
}

// Tour runs the quick reference at once and every following activity step
// after the previous one, measured from the start. Callbacks of earlier
// activities may still be printing when the next one starts. The summary
// waits for all of them.
func Tour(ctx context.Context, env *Env, step time.Duration) error {
	s, err := newSession(ctx, env)
	if err != nil {
		return err
	}
	defer s.close()

	s.con.write("🚀 File activity tour starting...\n\n")
	s.con.write("🎯 Running all file activities...\n\n")

	start := time.Now()
	for i, a := range activities {
		if i > 0 {
			select {
			case <-time.After(time.Until(start.Add(time.Duration(i) * step))):
			case <-ctx.Done():
				env.logger().Info("File tour interrupted", "next", a.Name)
				return ctx.Err()
			}
		}

		if i == len(activities)-1 {
			s.wait()
		}
		env.logger().Debug("Starting activity", "activity", a.Name)
		s.run(a)
	}
	return nil
}

var seedFiles = []struct {
	name    string
	content string
}{
	{"notes.txt", "  Hello World  \n   This Is A NOTE about Go I/O\nMIXED case LINE   \n\tTabs and Spaces\t\n"},
	{"emoji.txt", "Go 🐹 streams ✨ bytes: ÄÖÜ\n"},
	{"a.txt", "Contents of file A\n"},
	{"b.txt", "Contents of file B\n"},
	{"c.txt", "Contents of file C\n"},
}

// Seed writes the sample input files the activities read, leaving existing
// files untouched. It returns the names it created.
func Seed(fs afero.Fs) ([]string, error) {
	var created []string
	for _, f := range seedFiles {
		exists, err := afero.Exists(fs, f.name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if err := afero.WriteFile(fs, f.name, []byte(f.content), 0o644); err != nil {
			return created, fmt.Errorf("seed %s: %w", f.name, err)
		}
		created = append(created, f.name)
	}
	return created, nil
}
