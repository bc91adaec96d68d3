package adminhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/domain/instruction"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/requests"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/responses"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const resourceInstruction = "instruction"

// InstructionHandler manages the system-prompt rules.
type InstructionHandler struct {
	instructionService instruction.Service
	audit              AuditRecorder
}

func NewInstructionHandler(instructionService instruction.Service, audit AuditRecorder) *InstructionHandler {
	return &InstructionHandler{instructionService: instructionService, audit: audit}
}

// List godoc
// @Summary List instructions
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.ListResponse[instruction.Instruction]
// @Router /v1/admin/instructions [get]
func (h *InstructionHandler) List(c *gin.Context) {
	items, err := h.instructionService.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to load instructions")
		return
	}
	c.JSON(http.StatusOK, responses.BuildListResponse(items))
}

// Create godoc
// @Summary Create an instruction
// @Tags Admin API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body requests.CreateInstructionRequest true "Instruction"
// @Success 201 {object} instruction.Instruction
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/admin/instructions [post]
func (h *InstructionHandler) Create(c *gin.Context) {
	var req requests.CreateInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "instruction-handler-bind-001")
		return
	}

	item, err := h.instructionService.Create(c.Request.Context(), instruction.CreateParams{
		Text:     req.InstructionText,
		Priority: req.Priority,
		IsActive: req.IsActive,
	})
	if err != nil {
		responses.HandleError(c, err, "Failed to create instruction")
		logAudit(c, h.audit, "create_instruction", resourceInstruction, "", req, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "create_instruction", resourceInstruction, item.ID, req, http.StatusCreated, nil)
	c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update an instruction
// @Tags Admin API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instruction ID"
// @Param request body requests.UpdateInstructionRequest true "Fields to change"
// @Success 200 {object} instruction.Instruction
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/admin/instructions/{id} [put]
func (h *InstructionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req requests.UpdateInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request body", "instruction-handler-bind-002")
		return
	}

	item, err := h.instructionService.Update(c.Request.Context(), id, instruction.UpdateParams{
		Text:     req.InstructionText,
		Priority: req.Priority,
		IsActive: req.IsActive,
	})
	if err != nil {
		responses.HandleError(c, err, "Failed to update instruction")
		logAudit(c, h.audit, "update_instruction", resourceInstruction, id, req, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "update_instruction", resourceInstruction, id, req, http.StatusOK, nil)
	c.JSON(http.StatusOK, item)
}

// Toggle godoc
// @Summary Toggle an instruction
// @Description Flips is_active.
// @Tags Admin API
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instruction ID"
// @Success 200 {object} instruction.Instruction
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/admin/instructions/{id}/toggle [post]
func (h *InstructionHandler) Toggle(c *gin.Context) {
	id := c.Param("id")

	item, err := h.instructionService.Toggle(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "Failed to toggle instruction")
		logAudit(c, h.audit, "toggle_instruction", resourceInstruction, id, nil, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "toggle_instruction", resourceInstruction, id, map[string]bool{"is_active": item.IsActive}, http.StatusOK, nil)
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an instruction
// @Tags Admin API
// @Security BearerAuth
// @Param id path string true "Instruction ID"
// @Success 204
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/admin/instructions/{id} [delete]
func (h *InstructionHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.instructionService.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "Failed to delete instruction")
		logAudit(c, h.audit, "delete_instruction", resourceInstruction, id, nil, statusOf(c), err)
		return
	}

	logAudit(c, h.audit, "delete_instruction", resourceInstruction, id, nil, http.StatusNoContent, nil)
	c.Status(http.StatusNoContent)
}
