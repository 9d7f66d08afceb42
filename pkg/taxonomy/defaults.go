// pkg/taxonomy/defaults.go
package taxonomy

// TechCategory is the broad bucket whose roles cross-match each other.
const TechCategory = "Computer and Mathematical"

// Default returns the built-in taxonomy, based on O*NET and BLS
// occupational groups.
func Default() *Taxonomy {
	t := &Taxonomy{
		Version:              "1.0",
		Categories:           defaultCategories(),
		CrossMatchCategories: []string{TechCategory},
		Synonyms:             defaultSynonyms(),
	}
	t.index()
	return t
}

func defaultCategories() []Category {
	return []Category{
		{Name: TechCategory, Subcategories: []Subcategory{
			{Name: "Software Development", Roles: []string{
				"Software Developer", "Software Engineer", "Web Developer", "Mobile Developer",
				"Game Developer", "DevOps Engineer", "QA Engineer", "Systems Engineer",
			}},
			{Name: "Data and Analytics", Roles: []string{
				"Data Scientist", "Data Engineer", "Data Analyst", "Business Intelligence Analyst",
				"Machine Learning Engineer", "AI Engineer",
			}},
			{Name: "IT and Systems", Roles: []string{
				"Systems Administrator", "Network Engineer", "Security Engineer",
				"IT Support Specialist", "Database Administrator", "Cloud Engineer",
			}},
		}},
		{Name: "Architecture and Engineering", Subcategories: []Subcategory{
			{Name: "Engineering", Roles: []string{
				"Mechanical Engineer", "Electrical Engineer", "Civil Engineer",
				"Chemical Engineer", "Industrial Engineer", "Aerospace Engineer",
			}},
			{Name: "Architecture", Roles: []string{
				"Architect", "Landscape Architect", "Interior Designer", "Urban Planner",
			}},
		}},
		{Name: "Life, Physical, and Social Science", Subcategories: []Subcategory{
			{Name: "Science", Roles: []string{
				"Research Scientist", "Laboratory Technician", "Environmental Scientist",
				"Chemist", "Biologist", "Physicist",
			}},
			{Name: "Social Science", Roles: []string{
				"Sociologist", "Psychologist", "Economist", "Political Scientist",
			}},
		}},
		{Name: "Education, Training, and Library", Subcategories: []Subcategory{
			{Name: "Education", Roles: []string{
				"Teacher", "Professor", "School Administrator", "Librarian", "Educational Consultant",
			}},
			{Name: "Training", Roles: []string{
				"Corporate Trainer", "Instructional Designer", "Curriculum Developer",
			}},
		}},
		{Name: "Healthcare Practitioners and Technical", Subcategories: []Subcategory{
			{Name: "Medical", Roles: []string{
				"Physician", "Nurse", "Pharmacist", "Dentist", "Veterinarian",
			}},
			{Name: "Healthcare Support", Roles: []string{
				"Medical Assistant", "Pharmacy Technician", "Dental Hygienist", "Physical Therapist",
			}},
		}},
		{Name: "Business and Financial Operations", Subcategories: []Subcategory{
			{Name: "Management", Roles: []string{
				"Project Manager", "Product Manager", "Operations Manager",
				"Business Analyst", "Management Consultant",
			}},
			{Name: "Finance", Roles: []string{
				"Accountant", "Financial Analyst", "Investment Banker", "Actuary", "Auditor",
			}},
		}},
		{Name: "Arts, Design, Entertainment, Sports, and Media", Subcategories: []Subcategory{
			{Name: "Design", Roles: []string{
				"Graphic Designer", "UX/UI Designer", "Industrial Designer",
				"Fashion Designer", "Interior Designer",
			}},
			{Name: "Media", Roles: []string{
				"Content Writer", "Journalist", "Editor", "Social Media Manager",
				"Digital Marketing Specialist",
			}},
		}},
		{Name: "Installation, Maintenance, and Repair", Subcategories: []Subcategory{
			{Name: "Maintenance", Roles: []string{
				"Maintenance Technician", "HVAC Technician", "Electrician", "Plumber", "Carpenter",
			}},
			{Name: "Manufacturing", Roles: []string{
				"Machine Operator", "Assembly Worker", "Quality Control Inspector", "Production Supervisor",
			}},
		}},
		{Name: "Transportation and Material Moving", Subcategories: []Subcategory{
			{Name: "Transportation", Roles: []string{
				"Truck Driver", "Delivery Driver", "Logistics Coordinator", "Supply Chain Manager",
			}},
			{Name: "Warehouse", Roles: []string{
				"Warehouse Worker", "Forklift Operator", "Inventory Manager", "Shipping Coordinator",
			}},
		}},
		{Name: "Building and Grounds Cleaning and Maintenance", Subcategories: []Subcategory{
			{Name: "Cleaning", Roles: []string{
				"Janitor", "Housekeeper", "Custodian", "Groundskeeper",
			}},
			{Name: "Maintenance", Roles: []string{
				"Building Maintenance Worker", "Landscaper", "Pest Control Worker",
			}},
		}},
	}
}

func defaultSynonyms() map[string][]string {
	return map[string][]string{
		"therapist": {
			"slp", "speech therapist", "speech language pathologist", "pathologist",
			"counselor", "psychologist", "occupational therapist", "physical therapist",
		},
		"nurse":            {"rn", "lpn", "registered nurse", "nursing"},
		"developer":        {"engineer", "programmer", "software engineer"},
		"teacher":          {"educator", "instructor", "tutor"},
		"driver":           {"cdl", "trucker", "delivery"},
		"warehouse":        {"forklift", "picker", "packer", "material handler"},
		"accountant":       {"cpa", "bookkeeper", "accounting"},
		"admin":            {"administrative", "receptionist", "office assistant", "clerical"},
		"customer service": {"call center", "csr", "support representative"},
		"manager":          {"supervisor", "lead"},
	}
}
