package user

import (
	"errors"
	"time"

	"github.com/trezcool/afs/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
	// ErrAuthFailed covers wrong credentials, unapproved and deactivated
	// accounts alike; the distinction is deliberately not surfaced.
	ErrAuthFailed  = errors.New("authentication failed")
	ErrNotLecturer = errors.New("user is not a lecturer")
	ErrNotLeader   = errors.New("user is not an academic leader")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByUsername(username string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name, User.Username or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(user User) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) CheckUniqueness(uname string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, exclUsers...); err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register validates and creates a new account. Self-registered accounts are
// active but unapproved until admin staff clears them; admin-created accounts
// may be pre-approved.
func (svc *Service) Register(nu NewUser) (User, error) {
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}

	usr := User{
		ID:         svc.NextID(nu.Role),
		Username:   nu.Username,
		Password:   nu.Password,
		Email:      nu.Email,
		Name:       nu.Name,
		Phone:      nu.Phone,
		Gender:     nu.Gender,
		Age:        nu.Age,
		Role:       nu.Role,
		IsActive:   true,
		IsApproved: nu.PreApproved,
		CreatedAt:  time.Now(),
	}
	switch {
	case nu.Role.IsStaff():
		usr.Department = nu.Department
		usr.StaffID = svc.NextStaffID()
	case nu.Role == RoleStudent:
		usr.EnrollmentYear = nu.EnrollmentYear
	}
	return svc.repo.CreateUser(usr)
}

// Authenticate returns the account matching the credentials, provided it is
// both approved and active; any other outcome is ErrAuthFailed.
func (svc *Service) Authenticate(uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
	if err != nil {
		return User{}, ErrAuthFailed
	}
	if usr.Password != pwd || !usr.CanLogin() {
		return User{}, ErrAuthFailed
	}
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) Filter(filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.FilterUsers(filter)
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	origUsr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}
	if err = uu.Validate(origUsr, svc); err != nil {
		return User{}, err
	}

	usr := origUsr
	usr.Name = uu.Name
	usr.Username = uu.Username
	usr.Email = uu.Email
	if uu.Phone != "" {
		usr.Phone = uu.Phone
	}
	if uu.Gender != "" {
		usr.Gender = uu.Gender
	}
	if uu.Age != 0 {
		usr.Age = uu.Age
	}
	if uu.Department != "" && usr.Role.IsStaff() {
		usr.Department = uu.Department
	}
	if uu.Password != "" {
		usr.Password = uu.Password
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	return svc.repo.UpdateUser(usr)
}

// Approve clears a pending registration for login.
func (svc *Service) Approve(id string) error {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	usr.IsApproved = true
	usr.IsActive = true
	_, err = svc.repo.UpdateUser(usr)
	return err
}

// Reject disables a registration without deleting it.
func (svc *Service) Reject(id string) error {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	usr.IsApproved = false
	usr.IsActive = false
	_, err = svc.repo.UpdateUser(usr)
	return err
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}

// AssignModule records a module assignment on a lecturer. The module is kept
// as a weak by-ID reference and resolved on demand.
func (svc *Service) AssignModule(lecturerID, moduleID string) error {
	usr, err := svc.repo.GetUserByID(lecturerID)
	if err != nil {
		return err
	}
	if !usr.IsLecturer() {
		return ErrNotLecturer
	}
	if usr.HasModule(moduleID) {
		return nil
	}
	usr.AssignedModuleIDs = append(usr.AssignedModuleIDs, moduleID)
	_, err = svc.repo.UpdateUser(usr)
	return err
}

// UnassignModule drops a module assignment from a lecturer, if present.
func (svc *Service) UnassignModule(lecturerID, moduleID string) error {
	usr, err := svc.repo.GetUserByID(lecturerID)
	if err != nil {
		return err
	}
	if !usr.IsLecturer() {
		return ErrNotLecturer
	}
	mods := usr.AssignedModuleIDs[:0]
	for _, id := range usr.AssignedModuleIDs {
		if id != moduleID {
			mods = append(mods, id)
		}
	}
	usr.AssignedModuleIDs = mods
	_, err = svc.repo.UpdateUser(usr)
	return err
}

// AssignLeader sets the academic leader back-reference on a lecturer.
func (svc *Service) AssignLeader(lecturerID, leaderID string) error {
	usr, err := svc.repo.GetUserByID(lecturerID)
	if err != nil {
		return err
	}
	if !usr.IsLecturer() {
		return ErrNotLecturer
	}
	leader, err := svc.repo.GetUserByID(leaderID)
	if err != nil {
		return err
	}
	if !leader.IsAcademicLeader() {
		return ErrNotLeader
	}
	usr.AcademicLeaderID = leader.ID
	_, err = svc.repo.UpdateUser(usr)
	return err
}

// NextID computes the next role-scoped user ID from the current records.
func (svc *Service) NextID(role Role) string {
	users, err := svc.repo.QueryAllUsers()
	if err != nil {
		svc.log.Error("user: scanning IDs", err)
	}
	ids := make([]string, 0, len(users))
	for _, usr := range users {
		ids = append(ids, usr.ID)
	}
	return core.NextSeqID(role.IDPrefix(), ids)
}

// NextStaffID computes the next staff number; the sequence is shared by all
// staff roles.
func (svc *Service) NextStaffID() string {
	users, err := svc.repo.QueryAllUsers()
	if err != nil {
		svc.log.Error("user: scanning staff IDs", err)
	}
	ids := make([]string, 0, len(users))
	for _, usr := range users {
		if usr.StaffID != "" {
			ids = append(ids, usr.StaffID)
		}
	}
	return core.NextSeqID(StaffIDPrefix, ids)
}
