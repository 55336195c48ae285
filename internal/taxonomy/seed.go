package taxonomy

func intPtr(v int64) *int64 { return &v }

func genderPtr(g Gender) *Gender { return &g }

func agesPtr(from, to int) *AgeRange {
	return &AgeRange{From: from, To: to}
}

// SeedCatalog returns the default demo catalog used when no database is
// configured. Fees are in whole currency units.
func SeedCatalog() ([]Sport, []Category, []SubCategory) {
	sports := []Sport{
		{ID: "football", Name: "Football", Kind: KindTeam, Gender: GenderOpen, Ages: AgeRange{From: 8, To: 21}, BaseFee: 1000, TeamSize: 11},
		{ID: "basketball", Name: "Basketball", Kind: KindTeam, Gender: GenderOpen, Ages: AgeRange{From: 10, To: 35}, BaseFee: 800, TeamSize: 5},
		{ID: "athletics", Name: "Athletics", Kind: KindIndividual, Gender: GenderOpen, Ages: AgeRange{From: 8, To: 50}, BaseFee: 1500},
		{ID: "chess", Name: "Chess", Kind: KindIndividual, Gender: GenderOpen, Ages: AgeRange{From: 6, To: 60}, BaseFee: 500},
		{ID: "swimming", Name: "Swimming", Kind: KindIndividual, Gender: GenderOpen, Ages: AgeRange{From: 8, To: 40}, BaseFee: 1200},
	}

	categories := []Category{
		{ID: "football-junior", SportID: "football", Name: "Junior", Ages: agesPtr(8, 15)},
		{ID: "football-youth", SportID: "football", Name: "Youth", Ages: agesPtr(16, 18), Fee: intPtr(1000), InstitutionCap: 2},
		{ID: "football-senior", SportID: "football", Name: "Senior", Ages: agesPtr(18, 21), Fee: intPtr(1200)},
		{ID: "basketball-youth", SportID: "basketball", Name: "Youth", Ages: agesPtr(10, 17)},
		{ID: "basketball-open", SportID: "basketball", Name: "Open", Ages: agesPtr(18, 35), Fee: intPtr(800)},
		{ID: "athletics-track", SportID: "athletics", Name: "Track", Fee: intPtr(1500)},
		{ID: "athletics-field", SportID: "athletics", Name: "Field"},
		{ID: "chess-classic", SportID: "chess", Name: "Classical"},
		{ID: "swimming-sprint", SportID: "swimming", Name: "Sprint"},
	}

	subs := []SubCategory{
		{ID: "football-u9", CategoryID: "football-junior", Name: "U9", Fee: intPtr(600), Level: 1},
		{ID: "football-u13", CategoryID: "football-junior", Name: "U13", Fee: intPtr(750), Level: 2},
		{ID: "football-u17-boys", CategoryID: "football-youth", Name: "U17 Boys", Gender: genderPtr(GenderMale), Level: 3},
		{ID: "football-u17-girls", CategoryID: "football-youth", Name: "U17 Girls", Gender: genderPtr(GenderFemale), Level: 3},
		{ID: "basketball-3x3", CategoryID: "basketball-open", Name: "3x3", Fee: intPtr(600), Level: 4},
		{ID: "basketball-5x5", CategoryID: "basketball-open", Name: "5x5", Level: 4},
		{ID: "athletics-100m", CategoryID: "athletics-track", Name: "100m Sprint", Level: 2},
		{ID: "athletics-relay", CategoryID: "athletics-track", Name: "4x100m Relay", Fee: intPtr(2000), Level: 3},
		{ID: "athletics-longjump", CategoryID: "athletics-field", Name: "Long Jump", Fee: intPtr(1100), Level: 2},
		{ID: "chess-rapid", CategoryID: "chess-classic", Name: "Rapid", Fee: intPtr(400), Level: 1},
		{ID: "swimming-50m-free", CategoryID: "swimming-sprint", Name: "50m Freestyle", Level: 2},
	}

	return sports, categories, subs
}
