package checklist

import "github.com/turtacn/DPR-Intelligence/internal/domain/dpr"

// DefaultVersion tags the built-in rubric.
const DefaultVersion = "builtin-1.0"

// DefaultChecklist returns the built-in rubric: five sections weighted
// 15/25/20/20/20 with three fields each. Every call returns a fresh copy.
func DefaultChecklist() *Checklist {
	return &Checklist{
		Version:     DefaultVersion,
		TotalWeight: DefaultTotalWeight,
		Sections: []ChecklistSection{
			{
				ID:          "executive_summary",
				Name:        "Executive Summary",
				SectionType: dpr.SectionExecutiveSummary,
				Weight:      15,
				Fields: []ChecklistField{
					{
						ID: "project_name", Name: "Project Name", Weight: 4, Required: true,
						Keywords:   []string{"project name", "name of the project", "project title", "project"},
						Validation: &ValidationRule{MinLength: 5},
					},
					{
						ID: "objectives", Name: "Project Objectives", Weight: 6, Required: true,
						Keywords: []string{"objective", "aim", "purpose", "goal"},
					},
					{
						ID: "beneficiaries", Name: "Beneficiaries", Weight: 5,
						Keywords: []string{"beneficiar", "population", "households", "villages covered"},
					},
				},
			},
			{
				ID:          "cost_estimate",
				Name:        "Cost Estimate",
				SectionType: dpr.SectionCostEstimate,
				Weight:      25,
				Fields: []ChecklistField{
					{
						ID: "total_cost", Name: "Total Project Cost", Weight: 10, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityMonetary},
						Keywords:    []string{"total cost", "total project cost", "estimated cost", "project cost"},
					},
					{
						ID: "cost_breakdown", Name: "Cost Breakdown", Weight: 8, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityMonetary},
						Keywords:    []string{"breakdown", "labour cost", "material cost", "equipment cost", "component"},
					},
					{
						ID: "contingency", Name: "Contingency Provision", Weight: 7,
						Keywords: []string{"contingency", "escalation"},
					},
				},
			},
			{
				ID:          "timeline",
				Name:        "Implementation Timeline",
				SectionType: dpr.SectionTimeline,
				Weight:      20,
				Fields: []ChecklistField{
					{
						ID: "start_date", Name: "Start Date", Weight: 6, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityDate},
						Keywords:    []string{"start", "commence", "commencement"},
					},
					{
						ID: "completion_date", Name: "Completion Date", Weight: 8, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityDate},
						Keywords:    []string{"completion", "complete", "end date", "finish"},
					},
					{
						ID: "milestones", Name: "Milestones", Weight: 6,
						Keywords: []string{"milestone", "phase", "stage"},
					},
				},
			},
			{
				ID:          "resources",
				Name:        "Resource Requirements",
				SectionType: dpr.SectionResources,
				Weight:      20,
				Fields: []ChecklistField{
					{
						ID: "manpower", Name: "Manpower", Weight: 8, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityResource},
						Keywords:    []string{"worker", "labour", "labor", "engineer", "manpower", "staff"},
					},
					{
						ID: "materials", Name: "Materials", Weight: 7, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityResource},
						Keywords:    []string{"cement", "steel", "material", "aggregate", "bitumen", "sand"},
					},
					{
						ID: "equipment", Name: "Equipment", Weight: 5,
						EntityTypes: []dpr.EntityType{dpr.EntityResource},
						Keywords:    []string{"excavator", "equipment", "machinery", "crane", "roller", "truck"},
					},
				},
			},
			{
				ID:          "technical_specs",
				Name:        "Technical Specifications",
				SectionType: dpr.SectionTechnicalSpecs,
				Weight:      20,
				Fields: []ChecklistField{
					{
						ID: "location", Name: "Project Location", Weight: 6, Required: true,
						EntityTypes: []dpr.EntityType{dpr.EntityLocation},
						Keywords:    []string{"location", "site", "district", "village", "located"},
					},
					{
						ID: "design_standards", Name: "Design Standards", Weight: 7, Required: true,
						Keywords: []string{"IRC", "IS code", "specification", "standard"},
					},
					{
						ID: "technical_details", Name: "Technical Details", Weight: 7,
						Keywords: []string{"design", "width", "length", "thickness", "capacity", "technical"},
					},
				},
			},
		},
	}
}

//Personal.AI order the ending
