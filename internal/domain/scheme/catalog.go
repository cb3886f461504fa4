package scheme

// BuiltinCatalog returns the seed registry used when no catalog file or
// database is configured. Funding figures are indicative per-project limits.
func BuiltinCatalog() []GovernmentScheme {
	return []GovernmentScheme{
		{
			ID: "scheme-pmgsy", Code: "PMGSY",
			Name:        "Pradhan Mantri Gram Sadak Yojana",
			Ministry:    "Ministry of Rural Development",
			Description: "All-weather road connectivity to unconnected rural habitations",
			Objectives:  []string{"rural road connectivity", "upgrade existing rural roads"},
			MinFunding:  1e6, MaxFunding: 5e9,
			Sectors:            []string{"roads", "rural development"},
			Keywords:           []string{"rural road", "habitation", "connectivity", "village road"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"DPR", "core network plan", "land availability certificate", "environmental screening"},
			EligibilityCriteria: []string{
				"unconnected habitation above population threshold",
				"road in core network",
				"state share committed",
			},
			ProcessingTimeDays: 90,
		},
		{
			ID: "scheme-mgnrega", Code: "MGNREGA",
			Name:        "Mahatma Gandhi National Rural Employment Guarantee Act",
			Ministry:    "Ministry of Rural Development",
			Description: "Guaranteed wage employment through durable rural asset creation",
			Objectives:  []string{"wage employment", "water conservation", "rural assets"},
			MinFunding:  0, MaxFunding: 5e7,
			Sectors:            []string{"rural development", "employment", "water conservation"},
			Keywords:           []string{"wage employment", "job card", "rural assets", "unskilled labour"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"gram sabha resolution", "labour budget", "work estimate"},
			EligibilityCriteria: []string{
				"work approved by gram sabha",
				"labour to material ratio 60:40",
			},
			ProcessingTimeDays: 30,
		},
		{
			ID: "scheme-amrut", Code: "AMRUT",
			Name:        "Atal Mission for Rejuvenation and Urban Transformation",
			Ministry:    "Ministry of Housing and Urban Affairs",
			Description: "Urban water supply, sewerage and green space infrastructure",
			Objectives:  []string{"universal tap water in cities", "sewerage coverage", "urban green spaces"},
			MinFunding:  1e7, MaxFunding: 2e9,
			Sectors:            []string{"urban development", "water supply", "sewerage"},
			Keywords:           []string{"urban", "water supply", "sewerage", "storm water drainage", "municipal"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"DPR", "state annual action plan", "municipal resolution", "technical sanction"},
			EligibilityCriteria: []string{
				"mission city",
				"included in state annual action plan",
				"urban local body reforms adopted",
				"operation and maintenance plan",
			},
			ProcessingTimeDays: 120,
		},
		{
			ID: "scheme-scm", Code: "SCM",
			Name:        "Smart Cities Mission",
			Ministry:    "Ministry of Housing and Urban Affairs",
			Description: "Area-based development and pan-city smart solutions in selected cities",
			Objectives:  []string{"core urban infrastructure", "smart solutions", "area based development"},
			MinFunding:  5e7, MaxFunding: 1e10,
			Sectors:            []string{"urban development", "smart infrastructure"},
			Keywords:           []string{"smart city", "urban mobility", "integrated command", "area based development"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments: []string{
				"DPR", "SPV board approval", "smart city proposal", "technical sanction",
				"financial plan", "procurement plan", "environmental clearance",
			},
			EligibilityCriteria: []string{
				"selected smart city",
				"SPV incorporated",
				"project in smart city proposal",
			},
			ProcessingTimeDays: 150,
		},
		{
			ID: "scheme-jjm", Code: "JJM",
			Name:        "Jal Jeevan Mission",
			Ministry:    "Ministry of Jal Shakti",
			Description: "Functional household tap connections for every rural household",
			Objectives:  []string{"household tap connection", "drinking water security"},
			MinFunding:  1e6, MaxFunding: 3e9,
			Sectors:            []string{"water supply", "rural development"},
			Keywords:           []string{"tap connection", "drinking water", "piped water", "village water"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"DPR", "village action plan", "source sustainability report"},
			EligibilityCriteria: []string{
				"rural habitation",
				"village action plan approved",
				"community contribution committed",
			},
			ProcessingTimeDays: 60,
		},
		{
			ID: "scheme-pmksy", Code: "PMKSY",
			Name:        "Pradhan Mantri Krishi Sinchayee Yojana",
			Ministry:    "Ministry of Jal Shakti",
			Description: "Irrigation coverage expansion and water use efficiency in agriculture",
			Objectives:  []string{"har khet ko pani", "more crop per drop", "watershed development"},
			MinFunding:  5e6, MaxFunding: 5e9,
			Sectors:            []string{"irrigation", "agriculture", "water conservation"},
			Keywords:           []string{"irrigation", "canal", "micro irrigation", "watershed", "command area"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"DPR", "district irrigation plan", "hydrology clearance", "land records"},
			EligibilityCriteria: []string{
				"included in district irrigation plan",
				"command area defined",
				"state share committed",
				"water user association formed",
			},
			ProcessingTimeDays: 120,
		},
		{
			ID: "scheme-bharatmala", Code: "BMP",
			Name:        "Bharatmala Pariyojana",
			Ministry:    "Ministry of Road Transport and Highways",
			Description: "National highway corridor and economic corridor development",
			Objectives:  []string{"economic corridors", "national highway connectivity", "border roads"},
			MinFunding:  1e9, MaxFunding: 5e11,
			Sectors:            []string{"roads", "highways", "transport"},
			Keywords:           []string{"national highway", "expressway", "economic corridor", "flyover", "bypass"},
			Status:             StatusActive,
			VerificationStatus: Pending,
			RequiredDocuments: []string{
				"DPR", "feasibility report", "land acquisition plan", "environmental clearance",
				"forest clearance", "traffic study", "financial model",
			},
			EligibilityCriteria: []string{
				"corridor notified under programme",
				"land acquisition above 80 percent",
				"appraised by project appraisal committee",
				"environmental clearance obtained",
			},
			ProcessingTimeDays: 180,
		},
		{
			ID: "scheme-sbmg", Code: "SBM-G",
			Name:        "Swachh Bharat Mission Gramin",
			Ministry:    "Ministry of Jal Shakti",
			Description: "Rural sanitation and solid and liquid waste management",
			Objectives:  []string{"open defecation free plus", "solid waste management", "greywater management"},
			MinFunding:  0, MaxFunding: 1e8,
			Sectors:            []string{"sanitation", "rural development"},
			Keywords:           []string{"sanitation", "toilet", "waste management", "odf"},
			Status:             StatusActive,
			VerificationStatus: Verified,
			RequiredDocuments:  []string{"village sanitation plan", "gram panchayat resolution"},
			EligibilityCriteria: []string{
				"rural gram panchayat",
				"sanitation plan approved",
			},
			ProcessingTimeDays: 45,
		},
		{
			ID: "scheme-nesids", Code: "NESIDS",
			Name:        "North East Special Infrastructure Development Scheme",
			Ministry:    "Ministry of Development of North Eastern Region",
			Description: "Gap funding for water supply, power, connectivity and social infrastructure in the north east",
			Objectives:  []string{"infrastructure gap filling", "connectivity", "social sector infrastructure"},
			MinFunding:  1e7, MaxFunding: 1e9,
			Sectors:            []string{"roads", "water supply", "power", "health", "education"},
			Regions:            []string{"Arunachal Pradesh", "Assam", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Sikkim", "Tripura"},
			Keywords:           []string{"north east", "gap funding", "hill area", "connectivity"},
			Status:             StatusActive,
			VerificationStatus: Pending,
			RequiredDocuments:  []string{"DPR", "state priority list", "utilisation certificate"},
			EligibilityCriteria: []string{
				"north eastern state",
				"project in state priority list",
			},
			ProcessingTimeDays: 90,
		},
		{
			ID: "scheme-jnnurm", Code: "JNNURM",
			Name:        "Jawaharlal Nehru National Urban Renewal Mission",
			Ministry:    "Ministry of Housing and Urban Affairs",
			Description: "Urban infrastructure and governance reform mission, succeeded by AMRUT",
			Objectives:  []string{"urban infrastructure", "basic services to urban poor"},
			MinFunding:  1e7, MaxFunding: 5e9,
			Sectors:            []string{"urban development"},
			Keywords:           []string{"urban renewal", "urban infrastructure"},
			Status:             StatusClosed,
			VerificationStatus: Verified,
			ProcessingTimeDays: 120,
		},
		{
			ID: "scheme-rggvy", Code: "RGGVY",
			Name:        "Rajiv Gandhi Grameen Vidyutikaran Yojana",
			Ministry:    "Ministry of Power",
			Description: "Rural electrification, subsumed into DDUGJY",
			Objectives:  []string{"village electrification"},
			MinFunding:  1e6, MaxFunding: 1e9,
			Sectors:            []string{"power", "rural development"},
			Keywords:           []string{"electrification", "rural power"},
			Status:             StatusInactive,
			VerificationStatus: Verified,
			ProcessingTimeDays: 90,
		},
	}
}

//Personal.AI order the ending
