package validators

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/MKhiriev/ubuntu-pools/models"
)

func (v *SchemaValidator) validateCreateConstitution(ctx context.Context, in models.CreateConstitutionInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldPoolID, &in.PoolID, validation.Required, is.UUID),
		field(FieldTemplateName, &in.TemplateName, validation.Required),
		field(FieldContent, &in.Content, validation.By(contentRule)),
		field(FieldClauses, &in.Clauses),
	}, fields...)
}

func contentRule(value any) error {
	c, ok := value.(models.ConstitutionContentInput)
	if !ok {
		return nil
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.PoolName, validation.Required),
		validation.Field(&c.Purpose, validation.Required, validation.RuneLength(10, 0)),
		validation.Field(&c.PoolType, validation.Required, oneOf(models.PoolTypes)),
		validation.Field(&c.ContributionAmount, validation.Required),
		validation.Field(&c.ContributionSchedule, validation.Required),
		validation.Field(&c.LatePaymentPolicy, validation.Required, validation.RuneLength(10, 0)),
		validation.Field(&c.DisputeResolution, validation.Required, validation.RuneLength(10, 0)),
		validation.Field(&c.VotingThreshold, validation.Required, oneOf(models.VotingThresholds)),
		validation.Field(&c.PopiaConsent, validation.NotNil),
		validation.Field(&c.AuthorizedSignatories, validation.Required),
	)
}

func (v *SchemaValidator) validateCreateProposal(ctx context.Context, in models.CreateProposalInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldPoolID, &in.PoolID, validation.Required, is.UUID),
		field(FieldTitle, &in.Title, validation.Required, validation.RuneLength(5, 200)),
		field(FieldDescription, &in.Description, validation.Required, validation.RuneLength(20, 2000)),
		field(FieldType, &in.Type, validation.Required, oneOf(models.ProposalTypes)),
		field(FieldDeadline, &in.Deadline, validation.Required, validation.Date(time.RFC3339)),
	}, fields...)
}

func (v *SchemaValidator) validateVote(ctx context.Context, in models.VoteInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldProposalID, &in.ProposalID, validation.Required, is.UUID),
		field(FieldVote, &in.Vote, validation.Required, oneOf(models.VoteChoices)),
		field(FieldComment, &in.Comment, validation.RuneLength(0, 500)),
	}, fields...)
}

func (v *SchemaValidator) validateSignConstitution(ctx context.Context, in models.SignConstitutionInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldPoolID, &in.PoolID, validation.Required, is.UUID),
		field(FieldConstitutionID, &in.ConstitutionID, validation.Required, is.UUID),
		field(FieldFullLegalName, &in.FullLegalName, validation.Required, validation.RuneLength(3, 255)),
		field(FieldIPAddress, &in.IPAddress, is.IP),
	}, fields...)
}
