package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/models"
)

// AllRegionsParam is the region filter value that disables region filtering.
const AllRegionsParam = "all"

// FilterParams is the textual form of a Filter as it arrives from query
// parameters, datastar signals or command-line flags.
type FilterParams struct {
	Start   string   `param:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string   `param:"end" validate:"omitempty,datetime=2006-01-02"`
	Regions []string `param:"region"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("param")
	})
	return v
}

// Filter validates p and converts it. Malformed dates are reported as
// TypeMismatchError. Region names are not checked: unknown ones match
// nothing.
func (p FilterParams) Filter() (Filter, error) {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Filter{}, &apperrors.TypeMismatchError{
				Param: fe.Field(),
				Value: fmt.Sprint(fe.Value()),
				Want:  "date (YYYY-MM-DD)",
			}
		}
		return Filter{}, fmt.Errorf("validate filter: %w", err)
	}

	var f Filter
	if p.Start != "" {
		t, _ := time.Parse(models.DateLayout, p.Start)
		f.Start = &t
	}
	if p.End != "" {
		t, _ := time.Parse(models.DateLayout, p.End)
		f.End = &t
	}

	for _, value := range p.Regions {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				continue
			case strings.EqualFold(name, AllRegionsParam):
				f.Regions = nil
				return f, nil
			}
			// ParseRegion returns RegionUnknown on failure.
			region, _ := models.ParseRegion(name)
			f.Regions = append(f.Regions, region)
		}
	}

	return f, nil
}
