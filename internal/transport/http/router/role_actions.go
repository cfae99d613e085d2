package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-admin-boilerplate/internal/domain"
	httpez "go-admin-boilerplate/internal/transport/http/ez"
)

type roleOut struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	System      bool     `json:"system"`
}

func toRoleOut(r *domain.Role) roleOut {
	out := roleOut{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Actions: make([]string, 0, len(r.Actions)),
		System:  r.System,
	}
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, string(a))
	}
	return out
}

func mountRoleActions(g *gin.RouterGroup, d Deps) {
	ez := httpez.New(g)

	// GET /roles —— 分组已要求 view_roles
	type listOut struct {
		Items []roleOut `json:"items"`
	}
	httpez.RegisterAction[struct{}, listOut](ez, httpez.Action[struct{}, listOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (listOut, error) {
			rs, err := d.Roles.List()
			if err != nil {
				return listOut{}, httpez.Internal("list roles failed", err)
			}
			out := listOut{Items: make([]roleOut, 0, len(rs))}
			for i := range rs {
				out.Items = append(out.Items, toRoleOut(&rs[i]))
			}
			return out, nil
		},
	})

	type roleIn struct {
		Name        string   `json:"name"        binding:"required,max=64"`
		Description string   `json:"description" binding:"max=255"`
		Actions     []string `json:"actions"`
	}

	// POST /roles
	httpez.RegisterAction[roleIn, roleOut](ez, httpez.Action[roleIn, roleOut]{
		Method:     http.MethodPost,
		Path:       "",
		Binder:     httpez.BindJSON,
		Permission: domain.ActionCreateOrEditRole,
		Handler: func(c *gin.Context, in *roleIn) (roleOut, error) {
			r, err := d.Roles.Create(in.Name, in.Description, in.Actions)
			if err != nil {
				return roleOut{}, err
			}
			return toRoleOut(r), nil
		},
	})

	// PUT /roles/:id
	httpez.RegisterAction[roleIn, roleOut](ez, httpez.Action[roleIn, roleOut]{
		Method:     http.MethodPut,
		Path:       "/:id",
		Binder:     httpez.BindJSON,
		Permission: domain.ActionCreateOrEditRole,
		Handler: func(c *gin.Context, in *roleIn) (roleOut, error) {
			r, err := d.Roles.Update(c.Param("id"), in.Name, in.Description, in.Actions)
			if err != nil {
				return roleOut{}, err
			}
			return toRoleOut(r), nil
		},
	})

	// DELETE /roles/:id?replacement_id= —— 有用户挂着时必须给替换角色
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method:     http.MethodDelete,
		Path:       "/:id",
		Binder:     httpez.BindNone,
		Permission: domain.ActionDeleteRole,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := d.Roles.Delete(id, c.Query("replacement_id")); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
