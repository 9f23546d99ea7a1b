package member

// Record is the stored/exported JSON shape of a Member. It carries both
// halves of each historically dual-named field (imageUrl/profileImage,
// phoneNumber/phone) so older backups stay readable; business logic only
// ever sees the canonical Member form.
type Record struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	MembershipStatus     string `json:"membershipStatus"`
	LastAttendance       string `json:"lastAttendance"`
	ImageURL             string `json:"imageUrl"`
	ProfileImage         string `json:"profileImage"`
	PhoneNumber          string `json:"phoneNumber"`
	Phone                string `json:"phone"`
	MembershipType       string `json:"membershipType"`
	MembershipStartDate  string `json:"membershipStartDate"`
	MembershipEndDate    string `json:"membershipEndDate"`
	SubscriptionType     string `json:"subscriptionType"`
	SessionsRemaining    *int   `json:"sessionsRemaining,omitempty"`
	SubscriptionPrice    int    `json:"subscriptionPrice"`
	PaymentStatus        string `json:"paymentStatus"`
	PartialPaymentAmount int    `json:"partialPaymentAmount"`
	Note                 string `json:"note"`
}

// ToRecord converts a Member to its stored shape, mirroring the canonical
// image and phone fields into both of their dual names.
// POST: ImageURL == ProfileImage and PhoneNumber == Phone in the result
func (m Member) ToRecord() Record {
	var sessions *int
	if m.SessionsRemaining != nil {
		n := *m.SessionsRemaining
		sessions = &n
	}
	return Record{
		ID:                   m.ID,
		Name:                 m.Name,
		MembershipStatus:     m.MembershipStatus,
		LastAttendance:       m.LastAttendance,
		ImageURL:             m.ImageURL,
		ProfileImage:         m.ImageURL,
		PhoneNumber:          m.Phone,
		Phone:                m.Phone,
		MembershipType:       m.MembershipType,
		MembershipStartDate:  m.MembershipStartDate,
		MembershipEndDate:    m.MembershipEndDate,
		SubscriptionType:     m.SubscriptionType,
		SessionsRemaining:    sessions,
		SubscriptionPrice:    m.SubscriptionPrice,
		PaymentStatus:        m.PaymentStatus,
		PartialPaymentAmount: m.PartialPaymentAmount,
		Note:                 m.Note,
	}
}

// FromRecord converts a stored shape back to the canonical Member, preferring
// the newer field name of each dual pair when both are present.
func FromRecord(r Record) Member {
	image := r.ImageURL
	if image == "" {
		image = r.ProfileImage
	}
	phone := r.PhoneNumber
	if phone == "" {
		phone = r.Phone
	}
	var sessions *int
	if r.SessionsRemaining != nil {
		n := *r.SessionsRemaining
		sessions = &n
	}
	return Member{
		ID:                   r.ID,
		Name:                 r.Name,
		MembershipStatus:     r.MembershipStatus,
		LastAttendance:       r.LastAttendance,
		ImageURL:             image,
		Phone:                phone,
		MembershipType:       r.MembershipType,
		MembershipStartDate:  r.MembershipStartDate,
		MembershipEndDate:    r.MembershipEndDate,
		SubscriptionType:     r.SubscriptionType,
		SessionsRemaining:    sessions,
		SubscriptionPrice:    r.SubscriptionPrice,
		PaymentStatus:        r.PaymentStatus,
		PartialPaymentAmount: r.PartialPaymentAmount,
		Note:                 r.Note,
	}
}
