package validators

import (
	"context"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/MKhiriev/ubuntu-pools/models"
)

// Field names accepted by Validate for field-level scoping. They match the
// JSON names the schemas report errors under.
const (
	FieldName                 = "name"
	FieldDescription          = "description"
	FieldType                 = "type"
	FieldContributionAmount   = "contribution_amount"
	FieldContributionSchedule = "contribution_schedule"
	FieldMaxMembers           = "max_members"
	FieldSettings             = "settings"

	FieldPoolID         = "pool_id"
	FieldTemplateName   = "template_name"
	FieldContent        = "content"
	FieldClauses        = "clauses"
	FieldConstitutionID = "constitution_id"
	FieldFullLegalName  = "full_legal_name"
	FieldIPAddress      = "ip_address"

	FieldAmount    = "amount"
	FieldCurrency  = "currency"
	FieldReference = "reference"

	FieldTitle      = "title"
	FieldDeadline   = "deadline"
	FieldProposalID = "proposal_id"
	FieldVote       = "vote"
	FieldComment    = "comment"

	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldPhone     = "phone"
	FieldAvatarURL = "avatar_url"
)

// SchemaValidator implements [Validator] for every input shape of the pool
// domain, given by value or by pointer.
type SchemaValidator struct {
}

// NewSchemaValidator constructs a [SchemaValidator] and returns it as the
// [Validator] interface.
func NewSchemaValidator() Validator {
	return &SchemaValidator{}
}

// Validate dispatches to the schema of obj's type. Optional field names
// restrict validation to those fields; an unknown name fails with
// [ErrUnknownField].
func (v *SchemaValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreatePoolInput:
		return v.validateCreatePool(ctx, value, fields...)
	case *models.CreatePoolInput:
		return v.validateCreatePool(ctx, *value, fields...)

	case models.UpdatePoolInput:
		return v.validateUpdatePool(ctx, value, fields...)
	case *models.UpdatePoolInput:
		return v.validateUpdatePool(ctx, *value, fields...)

	case models.CreateConstitutionInput:
		return v.validateCreateConstitution(ctx, value, fields...)
	case *models.CreateConstitutionInput:
		return v.validateCreateConstitution(ctx, *value, fields...)

	case models.CreateTransactionInput:
		return v.validateCreateTransaction(ctx, value, fields...)
	case *models.CreateTransactionInput:
		return v.validateCreateTransaction(ctx, *value, fields...)

	case models.CreateProposalInput:
		return v.validateCreateProposal(ctx, value, fields...)
	case *models.CreateProposalInput:
		return v.validateCreateProposal(ctx, *value, fields...)

	case models.VoteInput:
		return v.validateVote(ctx, value, fields...)
	case *models.VoteInput:
		return v.validateVote(ctx, *value, fields...)

	case models.SignConstitutionInput:
		return v.validateSignConstitution(ctx, value, fields...)
	case *models.SignConstitutionInput:
		return v.validateSignConstitution(ctx, *value, fields...)

	case models.ProfileUpdate:
		return v.validateProfileUpdate(ctx, value, fields...)
	case *models.ProfileUpdate:
		return v.validateProfileUpdate(ctx, *value, fields...)

	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.SignUpInput:
		return v.validateSignUp(ctx, value, fields...)
	case *models.SignUpInput:
		return v.validateSignUp(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// namedField pairs a field rule with the name used for scoping.
type namedField struct {
	name  string
	rules *validation.FieldRules
}

func field(name string, ptr any, rules ...validation.Rule) namedField {
	return namedField{name: name, rules: validation.Field(ptr, rules...)}
}

// validateFields runs the rules of structPtr restricted to names, or all of
// them when names is empty.
func validateFields(structPtr any, all []namedField, names ...string) error {
	selected := make([]*validation.FieldRules, 0, len(all))

	if len(names) == 0 {
		for _, f := range all {
			selected = append(selected, f.rules)
		}
	} else {
		for _, name := range names {
			found := false
			for _, f := range all {
				if f.name == name {
					selected = append(selected, f.rules)
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %q", ErrUnknownField, name)
			}
		}
	}

	if err := validation.ValidateStruct(structPtr, selected...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func oneOf[T any](values []T) validation.Rule {
	elems := make([]any, len(values))
	for i, v := range values {
		elems[i] = v
	}
	return validation.In(elems...)
}

// positive fails for numbers that are not strictly greater than zero, and
// for NaN and infinities. Nil pointers pass; pair with Required when the
// value is mandatory.
var positive = validation.By(func(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	switch n := value.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
			return ErrNotPositive
		}
	case int:
		if n <= 0 {
			return ErrNotPositive
		}
	}
	return nil
})
