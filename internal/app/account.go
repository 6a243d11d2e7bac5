package app

import (
	"fmt"
	"time"

	"dealerhub/internal/util"
	"dealerhub/internal/validate"
	"dealerhub/pkg/auth"
	"dealerhub/pkg/domain"
)

// Register creates a Client account from validated input.
func (a *App) Register(in validate.RegistrationInput) (domain.Account, error) {
	taken, err := a.store.HasAccountEmail(in.Email)
	if err != nil {
		return domain.Account{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.Account{}, ErrEmailTaken
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}
	account := domain.Account{
		ID:           util.NewID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateAccount(account); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Login checks credentials and issues a session token.
func (a *App) Login(email, password string) (domain.Account, string, error) {
	account, ok, err := a.store.GetAccountByEmail(email)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("load account: %w", err)
	}
	if !ok || !auth.CheckPassword(password, account.PasswordHash) {
		return domain.Account{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(account.ID)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("create session: %w", err)
	}
	return account, token, nil
}

// Logout revokes a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// SetAccountRole changes an account's role. Admin surfaces only.
func (a *App) SetAccountRole(id string, role domain.AccountRole) (domain.Account, error) {
	updated, err := a.store.UpdateAccountRole(id, role)
	if err != nil {
		return domain.Account{}, fmt.Errorf("update role: %w", err)
	}
	if !updated {
		return domain.Account{}, ErrAccountNotFound
	}
	account, ok, err := a.store.GetAccountByID(id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !ok {
		return domain.Account{}, ErrAccountNotFound
	}
	return account, nil
}

// AccountByToken resolves a session token to its account.
func (a *App) AccountByToken(token string) (domain.Account, bool, error) {
	accountID, ok, err := a.sessions.GetAccountIDByToken(token)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("resolve session: %w", err)
	}
	if !ok {
		return domain.Account{}, false, nil
	}
	account, ok, err := a.store.GetAccountByID(accountID)
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("load account: %w", err)
	}
	return account, ok, nil
}
