package handler

import (
	"net/http"

	"rentals/pkg/response"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema *graphql.Schema
}

func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

func (h *GraphQLHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/graphql", h.Serve)
}

// Serve executes one GraphQL operation
// @Summary      Execute a GraphQL operation
// @Description  Queries are public; every mutation except register and login needs a Bearer token (or the access_token cookie)
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        request  body      GraphQLRequest  true  "GraphQL request"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  response.GraphQLErrors
// @Security     BearerAuth
// @Router       /graphql [post]
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.GraphQLFailure("BAD_REQUEST", "invalid GraphQL request: "+err.Error()))
		return
	}

	// Resolver and validation errors travel inside the body with status 200.
	resp := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	c.JSON(http.StatusOK, resp)
}
