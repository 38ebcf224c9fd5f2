package domain

// Analytics is the admin overview of the platform.
type Analytics struct {
	TotalUsers        int64
	TotalCourses      int64
	TotalEnrollments  int64
	TotalCertificates int64
	TotalRevenue      float64
	UsersByRole       map[string]int64
}
