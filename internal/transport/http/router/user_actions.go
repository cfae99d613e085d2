package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/service"
	httpez "go-admin-boilerplate/internal/transport/http/ez"
)

func mountUserActions(g *gin.RouterGroup, d Deps) {
	ez := httpez.New(g)

	// GET /users —— 分组已要求 view_users
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 email/姓名模糊搜
	}
	type listOut struct {
		Total int64     `json:"total"`
		Items []userOut `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := d.Users.List(in.Offset, in.Limit, in.Q)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]userOut, 0, len(us))}
			for i := range us {
				out.Items = append(out.Items, toUserOut(&us[i]))
			}
			return out, nil
		},
	})

	// GET /users/:id
	httpez.RegisterAction[struct{}, userOut](ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, err := d.Users.Get(c.Param("id"))
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	// POST /users
	type createIn struct {
		Email     string `json:"email"     binding:"required,email"`
		FirstName string `json:"firstName" binding:"required,max=64"`
		LastName  string `json:"lastName"  binding:"required,max=64"`
		Password  string `json:"password"  binding:"required"`
		RoleID    string `json:"roleId"    binding:"required"`
	}
	httpez.RegisterAction[createIn, userOut](ez, httpez.Action[createIn, userOut]{
		Method:     http.MethodPost,
		Path:       "",
		Binder:     httpez.BindJSON,
		Permission: domain.ActionCreateOrEditUser,
		Handler: func(c *gin.Context, in *createIn) (userOut, error) {
			u, err := d.Users.Create(service.CreateUserInput{
				Email:     in.Email,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Password:  in.Password,
				RoleID:    in.RoleID,
			})
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	// PUT /users/:id —— password 可选，给了就一起改
	type updateIn struct {
		Email     string `json:"email"     binding:"required,email"`
		FirstName string `json:"firstName" binding:"required,max=64"`
		LastName  string `json:"lastName"  binding:"required,max=64"`
		RoleID    string `json:"roleId"    binding:"required"`
		Password  string `json:"password"  binding:"omitempty"`
	}
	httpez.RegisterAction[updateIn, userOut](ez, httpez.Action[updateIn, userOut]{
		Method:     http.MethodPut,
		Path:       "/:id",
		Binder:     httpez.BindJSON,
		Permission: domain.ActionCreateOrEditUser,
		Handler: func(c *gin.Context, in *updateIn) (userOut, error) {
			u, err := d.Users.Update(c.Param("id"), service.UpdateUserInput{
				Email:     in.Email,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				RoleID:    in.RoleID,
				Password:  in.Password,
			})
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})

	// POST /users/:id/toggle-active —— 停用立即生效
	httpez.RegisterAction[struct{}, userOut](ez, httpez.Action[struct{}, userOut]{
		Method:     http.MethodPost,
		Path:       "/:id/toggle-active",
		Binder:     httpez.BindNone,
		Permission: domain.ActionToggleUserActive,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, err := d.Users.ToggleActive(c.Param("id"))
			if err != nil {
				return userOut{}, err
			}
			return toUserOut(u), nil
		},
	})
}
