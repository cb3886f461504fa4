package testutil

// SampleDPR is a compact but complete rural road DPR used across package
// tests. Every checklist section is present.
const SampleDPR = `# Executive Summary
The proposed project aims to construct a 12 km rural road connecting Rampur village to the district headquarters in Ganjam District, Odisha. The objective of the project is to provide all-weather connectivity to 4,500 beneficiaries. The project is proposed under PMGSY.

## Cost Estimate
The total project cost is estimated at Rs. 5.4 crore including GST. The cost breakdown includes labour cost of Rs. 1.2 crore, material cost of Rs. 3.1 crore and equipment cost of Rs. 80 lakh. A contingency of Rs. 30 lakh is provided for price escalation.

## Implementation Timeline
Work will commence on 01/04/2024 and the completion date is 31/03/2026, a duration of 24 months. Phase 1 covers earthwork and is a milestone due by 15th September 2024. Phase 2 covers pavement works.

## Resource Requirements
The project requires 120 workers and 8 engineers deployed on site. Materials include 2,500 tonnes of cement and 800 tonnes of steel. Equipment required includes 4 excavators, 6 trucks and 2 rollers.

## Technical Specifications
The road is located at 19.3150 N, 84.7941 E in Ganjam District. The design follows IRC:SP:20 and IRC 37 standards with a 3.75 m wide carriageway and 300 mm thick granular base. Land acquisition is complete. The site lies in a hilly area and monsoon delays are expected.
`

// SparseDPR carries an executive summary and nothing else.
const SparseDPR = `# Executive Summary
The proposed project aims to build a community hall for the village. The objective of the project is to provide a covered space for public meetings.
`

//Personal.AI order the ending
