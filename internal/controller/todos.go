package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"focusdock/internal/apperrors"
	"focusdock/internal/cache"
	"focusdock/internal/middleware"
	"focusdock/internal/repository"
	"focusdock/pkg/logger"
)

// TodoController serves the ordered todo list. Reads are cache-first as raw
// bytes per owner; every write invalidates the owner's cache entry.
type TodoController struct {
	store    repository.TodoStore
	useCache bool
	group    singleflight.Group
}

func NewTodoController(store repository.TodoStore, useCache bool) *TodoController {
	return &TodoController{store: store, useCache: useCache}
}

// GetTodos returns the owner's items ascending by order. Concurrent cache
// misses for the same owner collapse into one store read.
func (tc *TodoController) GetTodos(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	if tc.useCache {
		if b, ok := cache.GetRawTodos(ctx, ownerID); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	v, err, _ := tc.group.Do(ownerID, func() (interface{}, error) {
		todos, err := tc.store.List(context.Background(), ownerID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(todos)
	})
	if err != nil {
		if isContextErr(err) || ctx.Err() != nil {
			return
		}
		logger.Error(ctx, "GetTodos store failed", "error", err)
		writeError(c, err)
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	if tc.useCache {
		cache.SetRawTodosAsync(ownerID, b)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (tc *TodoController) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	todo, err := tc.store.Create(ctx, ownerID, body.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	tc.invalidate(ctx, ownerID)
	c.JSON(http.StatusCreated, todo)
}

func (tc *TodoController) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	var body struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	todo, err := tc.store.Update(ctx, ownerID, c.Param("id"), repository.TodoPatch{
		Text:      body.Text,
		Completed: body.Completed,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	tc.invalidate(ctx, ownerID)
	c.JSON(http.StatusOK, todo)
}

func (tc *TodoController) MoveTodoUp(c *gin.Context) {
	tc.move(c, repository.MoveUp, "Todo moved up successfully")
}

func (tc *TodoController) MoveTodoDown(c *gin.Context) {
	tc.move(c, repository.MoveDown, "Todo moved down successfully")
}

func (tc *TodoController) move(c *gin.Context, dir repository.Direction, message string) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	res, err := tc.store.Move(ctx, ownerID, c.Param("id"), dir)
	if err != nil {
		writeError(c, err)
		return
	}
	tc.invalidate(ctx, ownerID)
	c.JSON(http.StatusOK, gin.H{
		"message":      message,
		"currentItem":  res.Current,
		"neighborItem": res.Neighbor,
	})
}

func (tc *TodoController) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(c, apperrors.Validation("invalid or missing id"))
		return
	}

	todo, err := tc.store.Delete(ctx, ownerID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	tc.invalidate(ctx, ownerID)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Successful deletion",
		"deletedItem": todo,
	})
}

func (tc *TodoController) invalidate(ctx context.Context, ownerID string) {
	if tc.useCache {
		cache.InvalidateTodos(ctx, ownerID)
	}
}
