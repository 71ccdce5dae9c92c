package changes

import "trs/internal/history/models"

type PersonDetailsChanges uint32

const PersonDetailsChangesNone PersonDetailsChanges = 0

const (
	PersonDetailsChangesFirstName PersonDetailsChanges = 1 << iota
	PersonDetailsChangesMiddleName
	PersonDetailsChangesLastName
	PersonDetailsChangesDateOfBirth
	PersonDetailsChangesEmailAddress
	PersonDetailsChangesNationalInsuranceNumber
	PersonDetailsChangesGender
)

// PersonDetailsNameChanges groups the name parts, which render as a single
// "name" field.
const PersonDetailsNameChanges = PersonDetailsChangesFirstName |
	PersonDetailsChangesMiddleName |
	PersonDetailsChangesLastName

var personDetailsChangeNames = []string{
	"FirstName", "MiddleName", "LastName", "DateOfBirth", "EmailAddress", "NationalInsuranceNumber", "Gender",
}

func DiffPersonDetails(old, new models.PersonDetails) PersonDetailsChanges {
	var c PersonDetailsChanges
	if old.FirstName != new.FirstName {
		c |= PersonDetailsChangesFirstName
	}
	if !models.EqualPtr(old.MiddleName, new.MiddleName) {
		c |= PersonDetailsChangesMiddleName
	}
	if old.LastName != new.LastName {
		c |= PersonDetailsChangesLastName
	}
	if !models.EqualPtr(old.DateOfBirth, new.DateOfBirth) {
		c |= PersonDetailsChangesDateOfBirth
	}
	if !models.EqualPtr(old.EmailAddress, new.EmailAddress) {
		c |= PersonDetailsChangesEmailAddress
	}
	if !models.EqualPtr(old.NationalInsuranceNumber, new.NationalInsuranceNumber) {
		c |= PersonDetailsChangesNationalInsuranceNumber
	}
	if !models.EqualPtr(old.Gender, new.Gender) {
		c |= PersonDetailsChangesGender
	}
	return c
}

func (c PersonDetailsChanges) Has(f PersonDetailsChanges) bool       { return hasAll(c, f) }
func (c PersonDetailsChanges) HasAny(mask PersonDetailsChanges) bool { return hasAny(c, mask) }
func (c PersonDetailsChanges) Count() int                            { return count(c) }
func (c PersonDetailsChanges) Flags() []PersonDetailsChanges         { return split(c) }
func (c PersonDetailsChanges) String() string {
	return describe(c, personDetailsChangeNames)
}
