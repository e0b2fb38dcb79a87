package cif

// Each grammar starts with the reader positioned after the two byte record
// identity and consumes exactly PayloadLength bytes.

func parseHeader(r *fieldReader) (Record, error) {
	var (
		header Header
		err    error
	)

	if header.FileMainframeIdentity, err = r.mandatory("file_mainframe_identity", 20); err != nil {
		return nil, err
	}
	if header.ExtractDate, err = r.mandatory("extract_date", 6); err != nil {
		return nil, err
	}
	if header.ExtractTime, err = r.mandatory("extract_time", 4); err != nil {
		return nil, err
	}
	if header.CurrentFileRef, err = r.mandatory("current_file_ref", 7); err != nil {
		return nil, err
	}
	if header.LastFileRef, err = r.optional("last_file_ref", 7); err != nil {
		return nil, err
	}

	updateIndicator, err := r.char("update_indicator", "UF")
	if err != nil {
		return nil, err
	}
	header.UpdateIndicator = UpdateIndicator(updateIndicator)

	if header.Version, err = r.mandatory("version", 1); err != nil {
		return nil, err
	}
	if header.UserStartDate, err = r.mandatory("user_start_date", 6); err != nil {
		return nil, err
	}
	if header.UserEndDate, err = r.mandatory("user_end_date", 6); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 20); err != nil {
		return nil, err
	}

	return header, nil
}

// readTIPLOCDetails covers the columns shared by TI and TA records.
func readTIPLOCDetails(r *fieldReader) (TIPLOCInsert, error) {
	var (
		insert TIPLOCInsert
		err    error
	)

	if insert.TIPLOC, err = r.tiploc("tiploc"); err != nil {
		return insert, err
	}
	if err = r.skip("capitals", 2); err != nil {
		return insert, err
	}
	if insert.NationalLocationCode, err = r.optional("nlc", 6); err != nil {
		return insert, err
	}
	if insert.NLCCheckCharacter, err = r.optional("nlc_check_character", 1); err != nil {
		return insert, err
	}
	if insert.TPSDescription, err = r.raw("tps_description", 26); err != nil {
		return insert, err
	}
	if insert.STANOX, err = r.optional("stanox", 5); err != nil {
		return insert, err
	}
	if err = r.skip("po_mcp_code", 4); err != nil {
		return insert, err
	}
	if insert.CRSCode, err = r.optional("crs_code", 3); err != nil {
		return insert, err
	}
	if insert.NLCDescription, err = r.raw("nlc_description", 16); err != nil {
		return insert, err
	}

	return insert, nil
}

func parseTIPLOCInsert(r *fieldReader) (Record, error) {
	insert, err := readTIPLOCDetails(r)
	if err != nil {
		return nil, err
	}
	if err = r.spare("spare", 8); err != nil {
		return nil, err
	}

	return insert, nil
}

func parseTIPLOCAmend(r *fieldReader) (Record, error) {
	insert, err := readTIPLOCDetails(r)
	if err != nil {
		return nil, err
	}

	amend := TIPLOCAmend{TIPLOCInsert: insert}

	if amend.NewTIPLOC, err = r.optionalTIPLOC("new_tiploc"); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 1); err != nil {
		return nil, err
	}

	return amend, nil
}

func parseAssociation(r *fieldReader) (Record, error) {
	payload, err := r.raw("payload", PayloadLength)
	if err != nil {
		return nil, err
	}

	return Association{Payload: payload}, nil
}

func parseBasicSchedule(r *fieldReader) (Record, error) {
	var (
		schedule BasicSchedule
		err      error
	)

	transactionType, err := r.char("transaction_type", "NDR")
	if err != nil {
		return nil, err
	}
	schedule.TransactionType = TransactionType(transactionType)

	if schedule.TrainUID, err = r.mandatory("train_uid", 6); err != nil {
		return nil, err
	}
	if schedule.DateRunsFrom, err = r.mandatory("date_runs_from", 6); err != nil {
		return nil, err
	}
	// Blank on delete records.
	if schedule.DateRunsTo, err = r.optional("date_runs_to", 6); err != nil {
		return nil, err
	}
	if schedule.DaysRun, err = r.raw("days_run", 7); err != nil {
		return nil, err
	}
	if schedule.BankHolidayRunning, err = r.optional("bank_holiday_running", 1); err != nil {
		return nil, err
	}
	if schedule.TrainStatus, err = r.optional("train_status", 1); err != nil {
		return nil, err
	}
	if schedule.TrainCategory, err = r.optional("train_category", 2); err != nil {
		return nil, err
	}
	if schedule.TrainIdentity, err = r.optional("train_identity", 4); err != nil {
		return nil, err
	}
	if schedule.Headcode, err = r.optional("headcode", 4); err != nil {
		return nil, err
	}
	if schedule.CourseIndicator, err = r.optional("course_indicator", 1); err != nil {
		return nil, err
	}
	if schedule.TrainServiceCode, err = r.optional("train_service_code", 8); err != nil {
		return nil, err
	}
	if schedule.PortionID, err = r.optional("portion_id", 1); err != nil {
		return nil, err
	}
	if schedule.PowerType, err = r.optional("power_type", 3); err != nil {
		return nil, err
	}
	if schedule.TimingLoad, err = r.optional("timing_load", 4); err != nil {
		return nil, err
	}
	if schedule.Speed, err = r.optional("speed", 3); err != nil {
		return nil, err
	}
	if schedule.OperatingCharacteristics, err = r.raw("operating_characteristics", 6); err != nil {
		return nil, err
	}
	if schedule.SeatingClass, err = r.optional("seating_class", 1); err != nil {
		return nil, err
	}
	if schedule.Sleepers, err = r.optional("sleepers", 1); err != nil {
		return nil, err
	}
	if schedule.Reservations, err = r.optional("reservations", 1); err != nil {
		return nil, err
	}
	if schedule.ConnectionIndicator, err = r.optional("connection_indicator", 1); err != nil {
		return nil, err
	}
	if schedule.CateringCode, err = r.raw("catering_code", 4); err != nil {
		return nil, err
	}
	if schedule.ServiceBranding, err = r.raw("service_branding", 4); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 1); err != nil {
		return nil, err
	}

	stpIndicator, err := r.char("stp_indicator", "CNOP")
	if err != nil {
		return nil, err
	}
	schedule.STPIndicator = STPIndicator(stpIndicator)

	return schedule, nil
}

func parseBasicScheduleExtra(r *fieldReader) (Record, error) {
	var (
		extra BasicScheduleExtraDetails
		err   error
	)

	if extra.TractionClass, err = r.optional("traction_class", 4); err != nil {
		return nil, err
	}
	if extra.UICCode, err = r.optional("uic_code", 5); err != nil {
		return nil, err
	}
	if extra.ATOCCode, err = r.optional("atoc_code", 2); err != nil {
		return nil, err
	}
	if extra.ApplicableTimetableCode, err = r.optional("applicable_timetable_code", 1); err != nil {
		return nil, err
	}
	if extra.RetailServiceID, err = r.optional("retail_service_id", 8); err != nil {
		return nil, err
	}
	if err = r.skip("reserved", 1); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 57); err != nil {
		return nil, err
	}

	return extra, nil
}

func parseOriginLocation(r *fieldReader) (Record, error) {
	var (
		origin OriginLocation
		err    error
	)

	if origin.Location, err = r.tiploc("location"); err != nil {
		return nil, err
	}
	if origin.LocationSuffix, err = r.optional("location_suffix", 1); err != nil {
		return nil, err
	}
	if origin.ScheduledDepartureTime, err = r.timeHalf("scheduled_departure_time"); err != nil {
		return nil, err
	}
	if origin.PublicDepartureTime, err = r.time("public_departure_time"); err != nil {
		return nil, err
	}
	if origin.Platform, err = r.raw("platform", 3); err != nil {
		return nil, err
	}
	if origin.Line, err = r.raw("line", 3); err != nil {
		return nil, err
	}
	if origin.EngineeringAllowance, err = r.raw("engineering_allowance", 2); err != nil {
		return nil, err
	}
	if origin.PathingAllowance, err = r.raw("pathing_allowance", 2); err != nil {
		return nil, err
	}
	if origin.Activity, err = r.raw("activity", 12); err != nil {
		return nil, err
	}
	if origin.PerformanceAllowance, err = r.raw("performance_allowance", 2); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 37); err != nil {
		return nil, err
	}

	return origin, nil
}

func parseIntermediateLocation(r *fieldReader) (Record, error) {
	var (
		intermediate IntermediateLocation
		err          error
	)

	if intermediate.Location, err = r.tiploc("location"); err != nil {
		return nil, err
	}
	if intermediate.LocationSuffix, err = r.optional("location_suffix", 1); err != nil {
		return nil, err
	}
	if intermediate.ScheduledArrivalTime, err = r.timeHalf("scheduled_arrival_time"); err != nil {
		return nil, err
	}
	if intermediate.ScheduledDepartureTime, err = r.timeHalf("scheduled_departure_time"); err != nil {
		return nil, err
	}
	if intermediate.ScheduledPass, err = r.timeHalf("scheduled_pass"); err != nil {
		return nil, err
	}
	if intermediate.PublicArrivalTime, err = r.time("public_arrival_time"); err != nil {
		return nil, err
	}
	if intermediate.PublicDepartureTime, err = r.time("public_departure_time"); err != nil {
		return nil, err
	}
	if intermediate.Platform, err = r.raw("platform", 3); err != nil {
		return nil, err
	}
	if intermediate.Line, err = r.raw("line", 3); err != nil {
		return nil, err
	}
	if intermediate.Path, err = r.raw("path", 3); err != nil {
		return nil, err
	}
	if intermediate.Activity, err = r.raw("activity", 12); err != nil {
		return nil, err
	}
	if intermediate.EngineeringAllowance, err = r.raw("engineering_allowance", 2); err != nil {
		return nil, err
	}
	if intermediate.PathingAllowance, err = r.raw("pathing_allowance", 2); err != nil {
		return nil, err
	}
	if intermediate.PerformanceAllowance, err = r.raw("performance_allowance", 2); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 20); err != nil {
		return nil, err
	}

	return intermediate, nil
}

func parseTerminatingLocation(r *fieldReader) (Record, error) {
	var (
		terminating TerminatingLocation
		err         error
	)

	if terminating.Location, err = r.tiploc("location"); err != nil {
		return nil, err
	}
	if terminating.LocationSuffix, err = r.optional("location_suffix", 1); err != nil {
		return nil, err
	}
	if terminating.ScheduledArrivalTime, err = r.raw("scheduled_arrival_time", 5); err != nil {
		return nil, err
	}
	if terminating.PublicArrivalTime, err = r.raw("public_arrival_time", 4); err != nil {
		return nil, err
	}
	if terminating.Platform, err = r.raw("platform", 3); err != nil {
		return nil, err
	}
	if terminating.Path, err = r.raw("path", 3); err != nil {
		return nil, err
	}
	if terminating.Activity, err = r.raw("activity", 12); err != nil {
		return nil, err
	}
	if err = r.spare("spare", 43); err != nil {
		return nil, err
	}

	return terminating, nil
}

func parseChangesEnRoute(r *fieldReader) (Record, error) {
	var (
		change ChangesEnRoute
		err    error
	)

	if change.Location, err = r.tiploc("location"); err != nil {
		return nil, err
	}
	if change.LocationSuffix, err = r.optional("location_suffix", 1); err != nil {
		return nil, err
	}

	fields := []struct {
		name  string
		width int
		value *string
		raw   bool
	}{
		{"train_category", 2, &change.TrainCategory, false},
		{"train_identity", 4, &change.TrainIdentity, false},
		{"headcode", 4, &change.Headcode, false},
		{"course_indicator", 1, &change.CourseIndicator, false},
		{"train_service_code", 8, &change.TrainServiceCode, false},
		{"business_sector", 1, &change.BusinessSector, false},
		{"power_type", 3, &change.PowerType, false},
		{"timing_load", 4, &change.TimingLoad, false},
		{"speed", 3, &change.Speed, false},
		{"operating_characteristics", 6, &change.OperatingCharacteristics, true},
		{"train_class", 1, &change.TrainClass, false},
		{"sleepers", 1, &change.Sleepers, false},
		{"reservations", 1, &change.Reservations, false},
		{"connect_indicator", 1, &change.ConnectIndicator, false},
		{"catering_code", 4, &change.CateringCode, true},
		{"service_branding", 4, &change.ServiceBranding, true},
		{"traction_class", 4, &change.TractionClass, false},
		{"uic_code", 5, &change.UICCode, false},
		{"retail_service_id", 8, &change.RetailServiceID, false},
	}

	for _, field := range fields {
		if field.raw {
			*field.value, err = r.raw(field.name, field.width)
		} else {
			*field.value, err = r.optional(field.name, field.width)
		}
		if err != nil {
			return nil, err
		}
	}

	if err = r.spare("spare", 5); err != nil {
		return nil, err
	}

	return change, nil
}

func parseTrailer(r *fieldReader) (Record, error) {
	if err := r.spare("spare", PayloadLength); err != nil {
		return nil, err
	}

	return Trailer{}, nil
}
