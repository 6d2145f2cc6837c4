package flatfile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/afs/core/user"
)

// user line: role|id|username|password|email|name|phone|gender|age|created|active|approved|<payload>
// payload: dept|staffID[|leaderID|mod1,mod2] for staff roles; enrollmentYear for students.
const (
	userCommonFields   = 12
	userStudentFields  = userCommonFields + 1
	userStaffFields    = userCommonFields + 2
	userLecturerFields = userStaffFields + 2
)

func encodeUser(usr user.User) string {
	flds := []string{
		string(usr.Role),
		usr.ID,
		usr.Username,
		usr.Password,
		usr.Email,
		usr.Name,
		usr.Phone,
		usr.Gender,
		formatInt(usr.Age),
		formatTime(usr.CreatedAt),
		formatBool(usr.IsActive),
		formatBool(usr.IsApproved),
	}
	switch {
	case usr.Role == user.RoleLecturer:
		flds = append(flds, usr.Department, usr.StaffID, usr.AcademicLeaderID, joinList(usr.AssignedModuleIDs))
	case usr.Role.IsStaff():
		flds = append(flds, usr.Department, usr.StaffID)
	default:
		flds = append(flds, formatInt(usr.EnrollmentYear))
	}
	return strings.Join(flds, fieldSep)
}

// decodeUser dispatches on the leading role token into the matching variant.
func decodeUser(line string) (user.User, error) {
	flds := strings.Split(line, fieldSep)
	if len(flds) < userStudentFields {
		return user.User{}, errFieldCount
	}
	role := user.Role(flds[0])
	if !role.Valid() {
		return user.User{}, errors.Errorf("unknown role %q", flds[0])
	}
	age, err := strconv.Atoi(flds[8])
	if err != nil {
		return user.User{}, errors.Wrap(err, "age")
	}
	createdAt, err := parseTime(flds[9])
	if err != nil {
		return user.User{}, errors.Wrap(err, "created date")
	}
	isActive, err := strconv.ParseBool(flds[10])
	if err != nil {
		return user.User{}, errors.Wrap(err, "active flag")
	}
	isApproved, err := strconv.ParseBool(flds[11])
	if err != nil {
		return user.User{}, errors.Wrap(err, "approved flag")
	}

	usr := user.User{
		ID:         flds[1],
		Username:   flds[2],
		Password:   flds[3],
		Email:      flds[4],
		Name:       flds[5],
		Phone:      flds[6],
		Gender:     flds[7],
		Age:        age,
		Role:       role,
		CreatedAt:  createdAt,
		IsActive:   isActive,
		IsApproved: isApproved,
	}
	switch {
	case role == user.RoleLecturer:
		if len(flds) < userLecturerFields {
			return user.User{}, errFieldCount
		}
		usr.Department, usr.StaffID = flds[12], flds[13]
		usr.AcademicLeaderID = flds[14]
		usr.AssignedModuleIDs = splitList(flds[15])
	case role.IsStaff():
		if len(flds) < userStaffFields {
			return user.User{}, errFieldCount
		}
		usr.Department, usr.StaffID = flds[12], flds[13]
	default:
		year, err := strconv.Atoi(flds[12])
		if err != nil {
			return user.User{}, errors.Wrap(err, "enrollment year")
		}
		usr.EnrollmentYear = year
	}
	return usr, nil
}

func cloneUser(usr *user.User) user.User {
	cp := *usr
	cp.AssignedModuleIDs = append([]string(nil), usr.AssignedModuleIDs...)
	return cp
}

func (db *DB) loadUsers() error {
	lines, err := readLines(db.path(usersFile))
	if err != nil {
		return err
	}
	for i, line := range lines {
		usr, err := decodeUser(line)
		if err != nil {
			db.log.Info("flatfile: skipping bad user record", "file", usersFile, "line", i+1, "err", err)
			continue
		}
		db.user.table[usr.ID] = &usr
	}
	return nil
}

// saveAllUsers rewrites the whole user file; callers must hold the write lock.
func (db *DB) saveAllUsers() error {
	lines := make([]string, 0, len(db.user.table))
	for _, usr := range sortedUsers(db.user.table) {
		lines = append(lines, encodeUser(usr))
	}
	return writeLines(db.path(usersFile), lines)
}

func sortedUsers(table map[string]*user.User) []user.User {
	users := make([]user.User, 0, len(table))
	for _, usr := range table {
		users = append(users, cloneUser(usr))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// userRepository

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username string, excludedUsers ...user.User) error {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = struct{}{}
	}
	for _, usr := range repo.db.user.table {
		if _, skip := excluded[usr.ID]; skip {
			continue
		}
		if usr.Username == username {
			return user.ErrUsernameExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	repo.db.user.table[usr.ID] = &usr
	if err := appendLine(repo.db.path(usersFile), encodeUser(usr)); err != nil {
		repo.db.log.Error("flatfile: persisting user", err, "id", usr.ID)
		return usr, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()
	return sortedUsers(repo.db.user.table), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return cloneUser(usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Username == username {
			return cloneUser(usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if filter.IsEmpty() {
		return sortedUsers(repo.db.user.table), nil
	}

	search := strings.ToLower(filter.Search)
	matches := func(usr *user.User) bool {
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Name), search) &&
			!strings.Contains(strings.ToLower(usr.Username), search) &&
			!strings.Contains(strings.ToLower(usr.Email), search) {
			return false
		}
		if filter.Roles != nil {
			var found bool
			for _, role := range filter.Roles {
				if usr.Role == role {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			return false
		}
		if filter.IsApproved != nil && usr.IsApproved != *filter.IsApproved {
			return false
		}
		if !filter.CreatedFrom.IsZero() && usr.CreatedAt.Before(filter.CreatedFrom) {
			return false
		}
		if !filter.CreatedTo.IsZero() && usr.CreatedAt.After(filter.CreatedTo) {
			return false
		}
		return true
	}

	var users []user.User
	for _, usr := range repo.db.user.table {
		if matches(usr) {
			users = append(users, cloneUser(usr))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	if _, ok := repo.db.user.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.user.table[usr.ID] = &usr
	if err := repo.db.saveAllUsers(); err != nil {
		repo.db.log.Error("flatfile: persisting user update", err, "id", usr.ID)
		return usr, err
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	for _, id := range ids {
		delete(repo.db.user.table, id)
	}
	if err := repo.db.saveAllUsers(); err != nil {
		repo.db.log.Error("flatfile: persisting user delete", err)
		return err
	}
	return nil
}
