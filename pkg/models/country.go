package models

import (
	"context"
	"strings"

	"github.com/svewap/ext-oelib-sub002/pkg/mapper"
	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

// Country is a read-only entry of the static country list
// (static_countries).
type Country struct {
	*model.Record
}

func FindCountry(reg *mapper.Registry, uid int) (Country, error) {
	r, err := find(reg, CountryMapper, uid)
	return Country{r}, err
}

// FindCountryByISOAlpha2 looks a country up by its two-letter code, case
// insensitively.
func FindCountryByISOAlpha2(ctx context.Context, reg *mapper.Registry, code string) (Country, error) {
	r, err := findByColumn(ctx, reg, CountryMapper, "cn_iso_2", strings.ToUpper(strings.TrimSpace(code)))
	return Country{r}, err
}

func (c Country) ISOAlpha2() (string, error) { return c.GetAsString("cn_iso_2") }
func (c Country) ISOAlpha3() (string, error) { return c.GetAsString("cn_iso_3") }
func (c Country) LocalName() (string, error) { return c.GetAsString("cn_short_local") }
func (c Country) EnglishName() (string, error) { return c.GetAsString("cn_short_en") }
