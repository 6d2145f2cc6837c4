// Package flatfile persists every entity type to a pipe-delimited text file,
// one record per line, and keeps an authoritative in-memory table per entity.
// Creates append one line; updates and deletes rewrite the whole file (the
// format has no random access by record). Malformed lines are skipped with a
// warning on load; a missing file is an empty collection.
package flatfile

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/afs/core"
	"github.com/trezcool/afs/core/assessment"
	"github.com/trezcool/afs/core/course"
	"github.com/trezcool/afs/core/grading"
	"github.com/trezcool/afs/core/user"
)

// per-entity-type files
const (
	usersFile       = "users.txt"
	modulesFile     = "modules.txt"
	classesFile     = "classes.txt"
	assessmentsFile = "assessments.txt"
	feedbackFile    = "feedback.txt"
	gradingFile     = "grading.txt"
)

type (
	DB struct {
		dir string
		log core.Logger

		user       *userTable
		module     *moduleTable
		class      *classTable
		assessment *assessmentTable
		feedback   *feedbackTable
		grading    *gradingTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	moduleTable struct {
		sync.RWMutex
		table map[string]*course.Module
	}
	classTable struct {
		sync.RWMutex
		table map[string]*course.Class
	}
	assessmentTable struct {
		sync.RWMutex
		table map[string]*assessment.Assessment
	}
	feedbackTable struct {
		sync.RWMutex
		table map[string]*assessment.Feedback
	}
	gradingTable struct {
		sync.RWMutex
		system *grading.System
	}
)

// Open creates the data directory if needed and loads every file into memory.
// Tables load in dependency order so that cross-references (class -> module,
// class -> lecturer, assessment -> module) can be checked against already
// loaded siblings; unresolved references stay by-ID and are only warned about.
func Open(dir string, log core.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "flatfile: creating data dir %s", dir)
	}
	db := &DB{
		dir:        dir,
		log:        log,
		user:       &userTable{table: make(map[string]*user.User)},
		module:     &moduleTable{table: make(map[string]*course.Module)},
		class:      &classTable{table: make(map[string]*course.Class)},
		assessment: &assessmentTable{table: make(map[string]*assessment.Assessment)},
		feedback:   &feedbackTable{table: make(map[string]*assessment.Feedback)},
		grading:    &gradingTable{},
	}
	for _, load := range []func() error{
		db.loadUsers,
		db.loadModules,
		db.loadClasses,
		db.loadAssessments,
		db.loadFeedback,
		db.loadGrading,
	} {
		if err := load(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *DB) path(file string) string {
	return filepath.Join(db.dir, file)
}
