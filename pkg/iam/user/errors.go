package user

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeNotFound          = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailExists       = ErrRegistry.Register("EMAIL_EXISTS", errx.TypeConflict, http.StatusConflict, "Email already exists")
	CodeOwnerProtected    = ErrRegistry.Register("OWNER_PROTECTED", errx.TypeForbidden, http.StatusForbidden, "Owner account cannot be modified")
	CodeInvalidRoleChange = ErrRegistry.Register("INVALID_ROLE_CHANGE", errx.TypeValidation, http.StatusBadRequest, "Role can only be set to user or admin")
	CodeInvalidEmail      = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Email is not valid")
	CodeWeakPassword      = ErrRegistry.Register("WEAK_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password is not strong enough")
	CodeFirstNameRequired = ErrRegistry.Register("FIRST_NAME_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "First name is required")
	CodeNothingToUpdate   = ErrRegistry.Register("NOTHING_TO_UPDATE", errx.TypeValidation, http.StatusBadRequest, "No fields to update")
)

func ErrNotFound() *errx.Error          { return ErrRegistry.New(CodeNotFound) }
func ErrEmailExists() *errx.Error       { return ErrRegistry.New(CodeEmailExists) }
func ErrOwnerProtected() *errx.Error    { return ErrRegistry.New(CodeOwnerProtected) }
func ErrInvalidRoleChange() *errx.Error { return ErrRegistry.New(CodeInvalidRoleChange) }
func ErrInvalidEmail() *errx.Error      { return ErrRegistry.New(CodeInvalidEmail) }
func ErrWeakPassword() *errx.Error      { return ErrRegistry.New(CodeWeakPassword) }
func ErrFirstNameRequired() *errx.Error { return ErrRegistry.New(CodeFirstNameRequired) }
func ErrNothingToUpdate() *errx.Error   { return ErrRegistry.New(CodeNothingToUpdate) }
