package flatfile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/afs/core/course"
)

// module line: id|name|code|description|creditHours|department
const moduleFields = 6

func encodeModule(mod course.Module) string {
	return strings.Join([]string{
		mod.ID,
		mod.Name,
		mod.Code,
		mod.Description,
		formatInt(mod.CreditHours),
		mod.Department,
	}, fieldSep)
}

func decodeModule(line string) (course.Module, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < moduleFields {
		return course.Module{}, errFieldCount
	}
	hours, err := strconv.Atoi(flds[4])
	if err != nil {
		return course.Module{}, errors.Wrap(err, "credit hours")
	}
	return course.Module{
		ID:          flds[0],
		Name:        flds[1],
		Code:        flds[2],
		Description: flds[3],
		CreditHours: hours,
		Department:  flds[5],
	}, nil
}

// class line: id|name|moduleID|lecturerID|semester|capacity|stu1,stu2,...
const classFields = 7

func encodeClass(cls course.Class) string {
	return strings.Join([]string{
		cls.ID,
		cls.Name,
		cls.ModuleID,
		cls.LecturerID,
		cls.Semester,
		formatInt(cls.Capacity),
		joinList(cls.StudentIDs),
	}, fieldSep)
}

func decodeClass(line string) (course.Class, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < classFields {
		return course.Class{}, errFieldCount
	}
	capacity, err := strconv.Atoi(flds[5])
	if err != nil {
		return course.Class{}, errors.Wrap(err, "capacity")
	}
	return course.Class{
		ID:         flds[0],
		Name:       flds[1],
		ModuleID:   flds[2],
		LecturerID: flds[3],
		Semester:   flds[4],
		Capacity:   capacity,
		StudentIDs: splitList(flds[6]),
	}, nil
}

func cloneClass(cls *course.Class) course.Class {
	cp := *cls
	cp.StudentIDs = append([]string(nil), cls.StudentIDs...)
	return cp
}

func (db *DB) loadModules() error {
	lines, err := readLines(db.path(modulesFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		mod, err := decodeModule(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad module record", "file", modulesFile, "line", i+1, "err", err)
			continue
		}
		db.module.table[mod.ID] = &mod
	}
	return nil
}

// loadClasses runs after users and modules so the weak references can be
// checked; a dangling reference is only warned about, the class still loads.
func (db *DB) loadClasses() error {
	lines, err := readLines(db.path(classesFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		cls, err := decodeClass(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad class record", "file", classesFile, "line", i+1, "err", err)
			continue
		}
		if _, ok := db.module.table[cls.ModuleID]; !ok {
			db.log.Info("flatfile: class references unknown module", "class", cls.ID, "module", cls.ModuleID)
		}
		if cls.LecturerID != "" {
			if _, ok := db.user.table[cls.LecturerID]; !ok {
				db.log.Info("flatfile: class references unknown lecturer", "class", cls.ID, "lecturer", cls.LecturerID)
			}
		}
		db.class.table[cls.ID] = &cls
	}
	return nil
}

func (db *DB) saveAllModules() error {
	lines := make([]string, 0, len(db.module.table))
	for _, mod := range sortedModules(db.module.table) {
		lines = append(lines, encodeModule(mod))
	}
	return writeLines(db.path(modulesFile), lines)
}

func (db *DB) saveAllClasses() error {
	lines := make([]string, 0, len(db.class.table))
	for _, cls := range sortedClasses(db.class.table) {
		lines = append(lines, encodeClass(cls))
	}
	return writeLines(db.path(classesFile), lines)
}

func sortedModules(table map[string]*course.Module) []course.Module {
	mods := make([]course.Module, 0, len(table))
	for _, mod := range table {
		mods = append(mods, *mod)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })
	return mods
}

func sortedClasses(table map[string]*course.Class) []course.Class {
	classes := make([]course.Class, 0, len(table))
	for _, cls := range table {
		classes = append(classes, cloneClass(cls))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes
}

// courseRepository

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateModule(mod course.Module) (course.Module, error) {
	repo.db.module.Lock()
	defer repo.db.module.Unlock()

	repo.db.module.table[mod.ID] = &mod
	if err := appendLine(repo.db.path(modulesFile), encodeModule(mod)); err != nil {
		repo.db.log.Error("flatfile: persisting module", err, "id", mod.ID)
		return mod, err
	}
	return mod, nil
}

func (repo *courseRepository) QueryAllModules() ([]course.Module, error) {
	repo.db.module.RLock()
	defer repo.db.module.RUnlock()
	return sortedModules(repo.db.module.table), nil
}

func (repo *courseRepository) GetModuleByID(id string) (course.Module, error) {
	repo.db.module.RLock()
	defer repo.db.module.RUnlock()

	if mod, ok := repo.db.module.table[id]; ok {
		return *mod, nil
	}
	return course.Module{}, course.ErrModuleNotFound
}

func (repo *courseRepository) UpdateModule(mod course.Module) (course.Module, error) {
	repo.db.module.Lock()
	defer repo.db.module.Unlock()

	if _, ok := repo.db.module.table[mod.ID]; !ok {
		return course.Module{}, course.ErrModuleNotFound
	}
	repo.db.module.table[mod.ID] = &mod
	if err := repo.db.saveAllModules(); err != nil {
		repo.db.log.Error("flatfile: persisting module update", err, "id", mod.ID)
		return mod, err
	}
	return mod, nil
}

func (repo *courseRepository) DeleteModulesByID(ids ...string) error {
	repo.db.module.Lock()
	defer repo.db.module.Unlock()

	for _, id := range ids {
		delete(repo.db.module.table, id)
	}
	if err := repo.db.saveAllModules(); err != nil {
		repo.db.log.Error("flatfile: persisting module delete", err)
		return err
	}
	return nil
}

func (repo *courseRepository) CreateClass(cls course.Class) (course.Class, error) {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	repo.db.class.table[cls.ID] = &cls
	if err := appendLine(repo.db.path(classesFile), encodeClass(cls)); err != nil {
		repo.db.log.Error("flatfile: persisting class", err, "id", cls.ID)
		return cls, err
	}
	return cls, nil
}

func (repo *courseRepository) QueryAllClasses() ([]course.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()
	return sortedClasses(repo.db.class.table), nil
}

func (repo *courseRepository) GetClassByID(id string) (course.Class, error) {
	repo.db.class.RLock()
	defer repo.db.class.RUnlock()

	if cls, ok := repo.db.class.table[id]; ok {
		return cloneClass(cls), nil
	}
	return course.Class{}, course.ErrClassNotFound
}

func (repo *courseRepository) UpdateClass(cls course.Class) (course.Class, error) {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	if _, ok := repo.db.class.table[cls.ID]; !ok {
		return course.Class{}, course.ErrClassNotFound
	}
	repo.db.class.table[cls.ID] = &cls
	if err := repo.db.saveAllClasses(); err != nil {
		repo.db.log.Error("flatfile: persisting class update", err, "id", cls.ID)
		return cls, err
	}
	return cls, nil
}

func (repo *courseRepository) DeleteClassesByID(ids ...string) error {
	repo.db.class.Lock()
	defer repo.db.class.Unlock()

	for _, id := range ids {
		delete(repo.db.class.table, id)
	}
	if err := repo.db.saveAllClasses(); err != nil {
		repo.db.log.Error("flatfile: persisting class delete", err)
		return err
	}
	return nil
}
