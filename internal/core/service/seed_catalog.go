package service

import "github.com/righttechcentre/lms-api/internal/core/domain"

// programTemplate describes how every course of one type is generated.
type programTemplate struct {
	Type           domain.CourseType
	Titles         []string
	Modules        int
	CreditHours    int
	DurationMonths int
	Price          float64
	Description    string   // %s = title
	ModuleSummary  string   // %s = title
	Objectives     []string
}

var seedPrograms = []programTemplate{
	{
		Type:           domain.CourseTypeDiploma,
		Modules:        15,
		CreditHours:    60,
		DurationMonths: 15,
		Price:          2499.00,
		Description:    "Comprehensive %s program covering essential skills and industry practices. Self-paced learning with AI tutoring support.",
		ModuleSummary:  "Core concepts and practical skills for %s",
		Objectives:     []string{"Understand fundamental concepts", "Apply theoretical knowledge", "Complete hands-on projects"},
		Titles: []string{
			"Diploma in Web Development",
			"Diploma in Artificial Intelligence",
			"Diploma in Augmented Reality and Virtual Reality",
			"Diploma in Blockchain Technology",
			"Diploma in Business Analytics",
			"Diploma in Cloud Computing",
			"Diploma in Computer Science",
			"Diploma in Cybersecurity",
			"Diploma in Data Analytics",
			"Diploma in Data Science",
			"Diploma in Digital Marketing",
			"Diploma in eCommerce",
			"Diploma in Financial Technology (FinTech)",
			"Diploma in Graphic Design",
			"Diploma in Information Assurance",
			"Diploma in Information Infrastructure Management",
			"Diploma in Information Technology",
			"Diploma in Internet of Things",
			"Diploma in Mobile Application Development",
			"Diploma in Networking",
			"Diploma in Programming",
			"Diploma in Project Management",
			"Diploma in Sustainable Technology",
			"Diploma in User Experience (UX) Design",
			"Diploma in User Interface (UI) Design",
			"Diploma in Video Production and Editing",
		},
	},
	{
		Type:           domain.CourseTypeBachelor,
		Modules:        30,
		CreditHours:    120,
		DurationMonths: 24,
		Price:          4499.00,
		Description:    "Comprehensive %s degree program. Develop expertise through rigorous coursework and practical projects.",
		ModuleSummary:  "Advanced topics in %s",
		Objectives:     []string{"Master advanced concepts", "Develop professional expertise", "Complete capstone projects"},
		Titles: []string{
			"Bachelor of Artificial Intelligence",
			"Bachelor of Computer Science",
			"Bachelor of Data Science",
			"Bachelor of Digital Marketing",
			"Bachelor of Entrepreneurship",
			"Bachelor of Environmental Science and Technology",
			"Bachelor of Graphic Design",
			"Bachelor of Health Informatics",
			"Bachelor of Information Technology",
			"Bachelor of Science in Advanced Technology",
			"Bachelor of Science in Cybersecurity and Information Assurance",
			"Bachelor of Science in Data Science and Analytics",
			"Bachelor of Science in Digital Marketing and eCommerce",
			"Bachelor of Science in Robotics and Artificial Intelligence",
			"Bachelor of Science in Software Development and Programming",
			"Bachelor of UX / UI Design",
		},
	},
	{
		Type:           domain.CourseTypeCertification,
		Modules:        30,
		CreditHours:    120,
		DurationMonths: 24,
		Price:          799.00,
		Description:    "Industry-recognized %s program. Prepare for certification with comprehensive training and exam preparation.",
		ModuleSummary:  "Certification preparation for %s",
		Objectives:     []string{"Prepare for certification exam", "Gain practical skills", "Build portfolio projects"},
		Titles: []string{
			"Certified Digital Marketing Professional",
			"AWS Certified Cloud Practitioner",
			"Certified Artificial Intelligence and Machine Learning Engineer",
			"Certified Blockchain Specialist",
			"Certified Cloud Computing Professional",
			"Certified Cybersecurity Analyst",
			"Certified Data Analyst",
			"Certified Data Scientist",
			"Certified DevOps Engineer",
			"Certified Ethical Hacker",
			"Certified Full Stack Developer",
			"Certified Machine Learning Engineer",
			"Certified Python Developer",
			"Certified UX / UI Designer",
			"CompTIA Security+",
		},
	},
}
