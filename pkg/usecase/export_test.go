package usecase

// SessionLockCount returns the number of mutexes guarding sessions
func (u *Assessment) SessionLockCount() int {
	return len(u.locks)
}
