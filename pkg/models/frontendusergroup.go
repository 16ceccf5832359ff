package models

import (
	"github.com/svewap/ext-oelib-sub002/pkg/mapper"
	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

// FrontEndUserGroup is a website user group (fe_groups). Subgroups belong
// to their group: cloning a group clones its subgroups too.
type FrontEndUserGroup struct {
	*model.Record
}

func FindFrontEndUserGroup(reg *mapper.Registry, uid int) (FrontEndUserGroup, error) {
	r, err := find(reg, FrontEndUserGroupMapper, uid)
	return FrontEndUserGroup{r}, err
}

func (g FrontEndUserGroup) Title() (string, error) { return g.GetAsString("title") }
func (g FrontEndUserGroup) Description() (string, error) { return g.GetAsString("description") }
func (g FrontEndUserGroup) SetTitle(title string) error { return g.Set("title", title) }

func (g FrontEndUserGroup) Subgroups() (*model.Collection, error) {
	return g.GetAsCollection("subgroup")
}
