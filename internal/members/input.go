package members

import (
	"strings"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/payload"
)

// Input is the full set of mutable member fields. Update replaces every one of
// them, so omitted fields become null/false.
type Input struct {
	Name             string
	Dob              *string
	Gender           *string
	MaritalStatus    *string
	Phone            *string
	Whatsapp         *string
	Email            *string
	Address          *string
	Neighborhood     *string
	City             *string
	FirstVisitDate   *string
	InvitedBy        *string
	PreviousChurch   *string
	IsBaptized       bool
	WantsBaptism     bool
	InGroup          bool
	InterestMinistry *string
	PastoralNotes    *string
	Status           models.MemberStatus
	AssignedTo       *uint
}

// ParseInput coerces a loose request body into Input. Free text is kept
// exactly as sent; escaping is left to whoever renders it.
func ParseInput(body payload.Map) (Input, error) {
	var (
		in  Input
		err error
	)
	if in.Name, err = body.RequiredString("name"); err != nil {
		return Input{}, err
	}

	texts := []struct {
		key string
		dst **string
	}{
		{"gender", &in.Gender},
		{"marital_status", &in.MaritalStatus},
		{"phone", &in.Phone},
		{"whatsapp", &in.Whatsapp},
		{"email", &in.Email},
		{"address", &in.Address},
		{"neighborhood", &in.Neighborhood},
		{"city", &in.City},
		{"invited_by", &in.InvitedBy},
		{"previous_church", &in.PreviousChurch},
		{"interest_ministry", &in.InterestMinistry},
		{"pastoral_notes", &in.PastoralNotes},
	}
	for _, f := range texts {
		if *f.dst, err = body.OptionalString(f.key); err != nil {
			return Input{}, err
		}
	}

	if in.Dob, err = body.OptionalDate("dob"); err != nil {
		return Input{}, err
	}
	if in.FirstVisitDate, err = body.OptionalDate("first_visit_date"); err != nil {
		return Input{}, err
	}

	if in.IsBaptized, err = body.Flag("is_baptized"); err != nil {
		return Input{}, err
	}
	if in.WantsBaptism, err = body.Flag("wants_baptism"); err != nil {
		return Input{}, err
	}
	if in.InGroup, err = body.Flag("in_group"); err != nil {
		return Input{}, err
	}

	if in.Status, err = parseStatus(body); err != nil {
		return Input{}, err
	}
	if in.AssignedTo, err = body.OptionalID("assigned_to"); err != nil {
		return Input{}, err
	}
	return in, nil
}

func parseStatus(body payload.Map) (models.MemberStatus, error) {
	raw, err := body.OptionalString("status")
	if err != nil {
		return "", err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return models.StatusVisitor, nil
	}
	status := models.MemberStatus(strings.ToUpper(strings.TrimSpace(*raw)))
	if !status.Valid() {
		return "", apperr.InvalidInput("Invalid status: " + *raw)
	}
	return status, nil
}

func (in Input) apply(m *models.Member) {
	m.Name = in.Name
	m.Dob = in.Dob
	m.Gender = in.Gender
	m.MaritalStatus = in.MaritalStatus
	m.Phone = in.Phone
	m.Whatsapp = in.Whatsapp
	m.Email = in.Email
	m.Address = in.Address
	m.Neighborhood = in.Neighborhood
	m.City = in.City
	m.FirstVisitDate = in.FirstVisitDate
	m.InvitedBy = in.InvitedBy
	m.PreviousChurch = in.PreviousChurch
	m.IsBaptized = models.Flag(in.IsBaptized)
	m.WantsBaptism = models.Flag(in.WantsBaptism)
	m.InGroup = models.Flag(in.InGroup)
	m.InterestMinistry = in.InterestMinistry
	m.PastoralNotes = in.PastoralNotes
	m.Status = in.Status
	m.AssignedTo = in.AssignedTo
}
