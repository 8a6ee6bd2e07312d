package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// ExportRequest describes one path+client export.
type ExportRequest struct {
	Path    string `json:"path" validate:"required,startswith=/,nospace"`
	Client  string `json:"client" validate:"required,nospace,excludesall=()"`
	Options string `json:"options" validate:"nospace,excludesall=()"`
}

// UnexportRequest removes one client, or every client when Client is "all" or empty.
type UnexportRequest struct {
	Path   string `json:"path" validate:"required,startswith=/,nospace"`
	Client string `json:"client" validate:"omitempty,nospace,excludesall=()"`
}

// MountRequest describes one fstab-backed NFS mount.
type MountRequest struct {
	Server     string `json:"server" validate:"required,nospace,excludesall=:"`
	Remote     string `json:"remote" validate:"required,startswith=/,nospace"`
	MountPoint string `json:"mount_point" validate:"required,startswith=/,nospace"`
	Options    string `json:"options" validate:"nospace"`
}

// Validate checks struct tags and converts failures into an INVALID ShareError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return Invalid(strings.Join(msgs, "; "))
}
