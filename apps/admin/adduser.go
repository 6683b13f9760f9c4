package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, first, last string, role user.Role, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	if !role.Valid() {
		return errors.Errorf("unknown role %q", role)
	}

	now := time.Now().UTC()
	active := true

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			FirstName: first,
			LastName:  last,
			Email:     email,
			Role:      role,
			IsActive:  &active,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.FirstName = first
	usr.LastName = last
	usr.Role = role
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	return err
}
