package rest

import (
	"net/http"

	"photogram/core/post/domain"
	"photogram/modules/mapper"
)

type PostAPI struct {
	app     *domain.Application
	mappers mapper.Dispatcher
}

func NewPostAPI(app *domain.Application, mappers mapper.Dispatcher) *PostAPI {
	return &PostAPI{app: app, mappers: mappers}
}

func (a *PostAPI) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /posts", a.ListPosts)
	mux.HandleFunc("POST /posts", a.CreatePost)
	mux.HandleFunc("GET /users/{id}/posts", a.ListUserPosts)

	mux.HandleFunc("GET /posts/{id}", a.GetPost)
	mux.HandleFunc("PUT /posts/{id}", a.UpdatePost)
	mux.HandleFunc("DELETE /posts/{id}", a.DeletePost)

	mux.HandleFunc("POST /posts/{id}/likes", a.LikePost)
	mux.HandleFunc("DELETE /posts/{id}/likes", a.UnlikePost)

	mux.HandleFunc("GET /posts/{id}/comments", a.ListComments)
	mux.HandleFunc("POST /posts/{id}/comments", a.AddComment)
	mux.HandleFunc("DELETE /posts/{id}/comments/{commentId}", a.DeleteComment)
}
