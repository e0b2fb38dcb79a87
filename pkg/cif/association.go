package cif

// AssociationDetails is the decoded form of an AA payload.
type AssociationDetails struct {
	TransactionType     TransactionType `groups:"basic"`
	BaseUID             string          `groups:"basic"`
	AssocUID            string          `groups:"basic"`
	AssocStartDate      string          `groups:"basic"`
	AssocEndDate        string          `groups:"basic"`
	AssocDays           string          `groups:"basic"`
	AssocCategory       string          `groups:"basic"`
	AssocDateIndicator  string          `groups:"detailed"`
	AssocLocation       TIPLOC          `groups:"basic"`
	BaseLocationSuffix  string          `groups:"detailed"`
	AssocLocationSuffix string          `groups:"detailed"`
	DiagramType         string          `groups:"detailed"`
	AssociationType     string          `groups:"detailed"`
	STPIndicator        STPIndicator    `groups:"basic"`
}

// Details decodes the payload on demand. Offsets in returned errors are
// relative to the start of the record.
func (a Association) Details() (AssociationDetails, error) {
	var (
		details AssociationDetails
		err     error
	)

	buf := append([]byte(RecordIdentityAssociation), a.Payload...)
	r := newFieldReader(buf, 0, RecordIdentityAssociation)
	r.pos = len(RecordIdentityAssociation)

	transactionType, err := r.char("transaction_type", "NDR")
	if err != nil {
		return details, err
	}
	details.TransactionType = TransactionType(transactionType)

	if details.BaseUID, err = r.mandatory("base_uid", 6); err != nil {
		return details, err
	}
	if details.AssocUID, err = r.mandatory("assoc_uid", 6); err != nil {
		return details, err
	}
	if details.AssocStartDate, err = r.mandatory("assoc_start_date", 6); err != nil {
		return details, err
	}
	if details.AssocEndDate, err = r.optional("assoc_end_date", 6); err != nil {
		return details, err
	}
	if details.AssocDays, err = r.raw("assoc_days", 7); err != nil {
		return details, err
	}
	if details.AssocCategory, err = r.optional("assoc_category", 2); err != nil {
		return details, err
	}
	if details.AssocDateIndicator, err = r.optional("assoc_date_indicator", 1); err != nil {
		return details, err
	}
	if details.AssocLocation, err = r.tiploc("assoc_location"); err != nil {
		return details, err
	}
	if details.BaseLocationSuffix, err = r.optional("base_location_suffix", 1); err != nil {
		return details, err
	}
	if details.AssocLocationSuffix, err = r.optional("assoc_location_suffix", 1); err != nil {
		return details, err
	}
	if details.DiagramType, err = r.optional("diagram_type", 1); err != nil {
		return details, err
	}
	if details.AssociationType, err = r.optional("association_type", 1); err != nil {
		return details, err
	}
	if err = r.spare("spare", 31); err != nil {
		return details, err
	}

	stpIndicator, err := r.char("stp_indicator", "CNOP")
	if err != nil {
		return details, err
	}
	details.STPIndicator = STPIndicator(stpIndicator)

	return details, nil
}
