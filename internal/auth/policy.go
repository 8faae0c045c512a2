// Package auth resolves the calling principal and decides what it may do.
package auth

import (
	"github.com/segyhp/fee-ledger/internal/domain"
	customError "github.com/segyhp/fee-ledger/pkg/errors"
)

// Role is the principal's role as issued by the identity provider.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	// RoleSystem is used by the scheduler.
	RoleSystem Role = "system"
)

// Capability names one guarded operation.
type Capability string

const (
	CapManageFees        Capability = "fees:manage"
	CapGenerateFees      Capability = "fees:generate"
	CapRecordCashPayment Capability = "payments:record_cash"
	CapPayOnline         Capability = "payments:pay_online"
	CapViewStatement     Capability = "statements:view"
	CapViewAllPayments   Capability = "payments:view_all"
	CapSendReminders     Capability = "reminders:send"
	CapViewSettings      Capability = "settings:view"
	CapManageSettings    Capability = "settings:manage"
)

// scope says how far a granted capability reaches.
type scope int

const (
	scopeNone scope = iota
	// scopeOwn applies only to students the principal is, or is parent of.
	scopeOwn
	scopeAll
)

var policy = map[Role]map[Capability]scope{
	RoleAdmin: {
		CapManageFees:        scopeAll,
		CapGenerateFees:      scopeAll,
		CapRecordCashPayment: scopeAll,
		CapPayOnline:         scopeAll,
		CapViewStatement:     scopeAll,
		CapViewAllPayments:   scopeAll,
		CapSendReminders:     scopeAll,
		CapViewSettings:      scopeAll,
		CapManageSettings:    scopeAll,
	},
	RoleSystem: {
		CapGenerateFees:  scopeAll,
		CapSendReminders: scopeAll,
		CapViewSettings:  scopeAll,
	},
	RoleTeacher: {
		CapViewSettings: scopeAll,
	},
	RoleStudent: {
		CapPayOnline:     scopeOwn,
		CapViewStatement: scopeOwn,
		CapViewSettings:  scopeAll,
	},
	RoleParent: {
		CapPayOnline:     scopeOwn,
		CapViewStatement: scopeOwn,
		CapViewSettings:  scopeAll,
	},
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

// SystemPrincipal is the identity scheduled jobs run as.
func SystemPrincipal() *Principal {
	return &Principal{UserID: "system", Role: RoleSystem}
}

func lookup(p *Principal, capability Capability) scope {
	if p == nil {
		return scopeNone
	}
	return policy[p.Role][capability]
}

// Authorize checks a capability that is not tied to a particular student.
// Own-scoped grants do not satisfy it.
func Authorize(p *Principal, capability Capability) error {
	if p == nil {
		return customError.WrapUnauthenticated()
	}
	if lookup(p, capability) != scopeAll {
		return customError.WrapForbidden(string(capability))
	}
	return nil
}

// AuthorizeStudent checks a capability against a specific student.
func AuthorizeStudent(p *Principal, capability Capability, student *domain.Student) error {
	if p == nil {
		return customError.WrapUnauthenticated()
	}

	switch lookup(p, capability) {
	case scopeAll:
		return nil
	case scopeOwn:
		if Owns(p, student) {
			return nil
		}
	}
	return customError.WrapForbidden(string(capability))
}

// Owns reports whether p is the student or the student's parent.
func Owns(p *Principal, student *domain.Student) bool {
	if p == nil || student == nil || p.UserID == "" {
		return false
	}
	switch p.Role {
	case RoleStudent:
		return student.UserID == p.UserID
	case RoleParent:
		return student.ParentUserID != nil && *student.ParentUserID == p.UserID
	}
	return false
}
