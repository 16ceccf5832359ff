package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/svewap/ext-oelib-sub002/pkg/mapper"
	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

// FrontEndUser is a website user (fe_users).
type FrontEndUser struct {
	*model.Record
}

// FindFrontEndUser returns the user with the given UID, as a ghost if it
// has not been loaded yet.
func FindFrontEndUser(reg *mapper.Registry, uid int) (FrontEndUser, error) {
	r, err := find(reg, FrontEndUserMapper, uid)
	return FrontEndUser{r}, err
}

// FindFrontEndUserByUserName returns the user with the given login name.
func FindFrontEndUserByUserName(ctx context.Context, reg *mapper.Registry, userName string) (FrontEndUser, error) {
	r, err := findByColumn(ctx, reg, FrontEndUserMapper, "username", userName)
	return FrontEndUser{r}, err
}

func (u FrontEndUser) Name() (string, error) { return u.GetAsString("name") }
func (u FrontEndUser) Email() (string, error) { return u.GetAsTrimmedString("email") }
func (u FrontEndUser) UserName() (string, error) { return u.GetAsString("username") }

func (u FrontEndUser) SetName(name string) error { return u.Set("name", name) }
func (u FrontEndUser) SetEmail(email string) error { return u.Set("email", email) }

// HasEmail reports whether the user has a non-blank e-mail address.
func (u FrontEndUser) HasEmail() (bool, error) {
	email, err := u.Email()
	return email != "", err
}

// Groups returns the groups the user belongs to.
func (u FrontEndUser) Groups() (*model.Collection, error) {
	return u.GetAsCollection("usergroup")
}

// HasGroupMembership reports whether the user belongs to at least one of
// the groups in uidList, a comma-separated list of group UIDs.
func (u FrontEndUser) HasGroupMembership(uidList string) (bool, error) {
	if strings.TrimSpace(uidList) == "" {
		return false, ErrEmptyGroupList
	}
	groups, err := u.Groups()
	if err != nil {
		return false, err
	}
	for _, item := range strings.Split(uidList, ",") {
		uid, err := cast.ToIntE(strings.TrimSpace(item))
		if err != nil {
			return false, fmt.Errorf("%w: group uid %q", model.ErrTypeMismatch, item)
		}
		if groups.HasUID(uid) {
			return true, nil
		}
	}
	return false, nil
}
