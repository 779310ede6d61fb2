package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/core/domain"

	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// plainHasher keeps tests fast; it is not a real digest.
type plainHasher struct {
	hashCalls int
}

func (h *plainHasher) Hash(password string) (string, error) {
	h.hashCalls++
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	nextID       uint
	createCalls  int
	lastLoginErr error
	lockErr      error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) seed(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = &u
	return r.snapshot(u.ID)
}

func (r *fakeUserRepo) snapshot(id uint) *models.User {
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (r *fakeUserRepo) get(id uint) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(id)
}

func (r *fakeUserRepo) findByUsername(username string, includeDeleted bool) *models.User {
	for _, u := range r.users {
		if u.Username == username && (includeDeleted || !u.DeletedAt.Valid) {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return r.snapshot(id), nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "display_name":
			u.DisplayName = v.(string)
		case "password":
			u.Password = v.(string)
		case "password_changed_at":
			at := v.(time.Time)
			u.PasswordChangedAt = &at
		case "role":
			u.Role = v.(string)
		case "enabled":
			u.Enabled = v.(bool)
		case "login_failed_attempts":
			u.LoginFailedAttempts = v.(int)
		case "account_locked_until":
			u.AccountLockedUntil = v.(*time.Time)
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uint, status domain.AccountStatus) error {
	return r.UpdateProfile(ctx, id, map[string]interface{}{
		"role":                  string(status.Role),
		"enabled":               status.Enabled,
		"login_failed_attempts": status.LoginFailedAttempts,
		"account_locked_until":  status.AccountLockedUntil,
	})
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.User
	for id := uint(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok && !u.DeletedAt.Valid {
			all = append(all, r.snapshot(id))
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) exists(match func(u *models.User) bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) ExistsByUsernameExcept(ctx context.Context, username string, id uint) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Username == username && u.ID != id })
}

func (r *fakeUserRepo) ExistsByEmailExcept(ctx context.Context, email string, id uint) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Email == email && u.ID != id })
}

func (r *fakeUserRepo) CountLocked(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !u.DeletedAt.Valid && u.AccountLockedUntil != nil && u.AccountLockedUntil.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) CountDisabled(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !u.DeletedAt.Valid && !u.Enabled {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) WithLockedAccount(ctx context.Context, username string, fn func(user *models.User)) error {
	if r.lockErr != nil {
		return r.lockErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.findByUsername(username, true)
	if stored == nil {
		fn(nil)
		return nil
	}
	cp := *stored
	fn(&cp)
	stored.LoginFailedAttempts = cp.LoginFailedAttempts
	stored.AccountLockedUntil = cp.AccountLockedUntil
	return nil
}

// fakeRealestateRepo is an in-memory RealestateRepository keyed by project id
type fakeRealestateRepo struct {
	mu      sync.Mutex
	details map[uint]models.RealestateDetail
	nextID  uint
}

func newFakeRealestateRepo() *fakeRealestateRepo {
	return &fakeRealestateRepo{details: map[uint]models.RealestateDetail{}, nextID: 1}
}

func (r *fakeRealestateRepo) get(projectID uint) (models.RealestateDetail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[projectID]
	return d, ok
}

func (r *fakeRealestateRepo) Search(ctx context.Context, f models.SearchFilter) ([]*models.RealestateDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.RealestateDetail{}
	for id := uint(1); id < r.nextID; id++ {
		d, ok := r.details[id]
		if !ok || d.Project.UserID != f.UserID {
			continue
		}
		if f.ProjectName != "" && !strings.Contains(d.Project.ProjectName, f.ProjectName) {
			continue
		}
		if f.BuildingType != "" && d.Building.BuildingType != f.BuildingType {
			continue
		}
		if f.Financing != nil && (d.IncomeAndExpenses.Principal > 0) != *f.Financing {
			continue
		}
		cp := d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRealestateRepo) GetByProjectID(ctx context.Context, projectID, userID uint) (*models.RealestateDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[projectID]
	if !ok || d.Project.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *fakeRealestateRepo) Create(ctx context.Context, detail *models.RealestateDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail.Project.ID = r.nextID
	r.nextID++
	detail.LinkProject()
	r.details[detail.Project.ID] = *detail
	return nil
}

func (r *fakeRealestateRepo) Update(ctx context.Context, detail *models.RealestateDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[detail.Project.ID]
	if !ok || d.Project.UserID != detail.Project.UserID {
		return gorm.ErrRecordNotFound
	}
	r.details[detail.Project.ID] = *detail
	return nil
}

func (r *fakeRealestateRepo) Delete(ctx context.Context, projectID, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[projectID]
	if !ok || d.Project.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.details, projectID)
	return nil
}

func (r *fakeRealestateRepo) DeleteAllByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.details {
		if d.Project.UserID == userID {
			delete(r.details, id)
		}
	}
	return nil
}

// fakeTxManager runs fn directly against the in-memory repositories
type fakeTxManager struct {
	repos repositories.Repositories
	calls int
}

func (m *fakeTxManager) WithTx(ctx context.Context, fn func(repos repositories.Repositories) error) error {
	m.calls++
	return fn(m.repos)
}
