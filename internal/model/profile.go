package model

// FounderProfile tags the founder's likely background. It conditions
// generation tone only; it is classified locally and never generated.
type FounderProfile string

const (
	ProfileSerialFounder    FounderProfile = "serial_founder"
	ProfileTechnicalFounder FounderProfile = "technical_founder"
	ProfileBusinessFounder  FounderProfile = "business_founder"
	ProfileDomainExpert     FounderProfile = "domain_expert"
	ProfileFirstTimeFounder FounderProfile = "first_time_founder"
)

var validProfiles = map[FounderProfile]bool{
	ProfileSerialFounder:    true,
	ProfileTechnicalFounder: true,
	ProfileBusinessFounder:  true,
	ProfileDomainExpert:     true,
	ProfileFirstTimeFounder: true,
}

// Valid reports whether p is a declared profile tag.
func (p FounderProfile) Valid() bool {
	return validProfiles[p]
}
