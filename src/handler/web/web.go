// Package web assembles the full HTTP surface: the REST API under /data and
// the embedded control panel shell.
package web

import (
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"wallplay/src/engine"
	"wallplay/src/handler/api"
	"wallplay/src/handler/webui"
	"wallplay/src/util"
)

const publicDir = "public"

// New builds the service router.
func New(build string, eng *engine.Engine, display util.Eventer) chi.Router {
	service := chi.NewRouter()
	service.Use(util.LogHandler)
	service.Use(middleware.Compress(5))

	service.Route("/data", func(r chi.Router) {
		api.InitRouter(r, eng, display)
	})

	assets := assetServer{
		files: webui.Files(build),
		// Debug builds serve assets unminified so line numbers survive.
		minify: build != "debug",
	}
	service.Get("/", assets.serve("index.html"))
	service.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		assets.serve(chi.URLParam(r, "*"))(w, r)
	})

	return service
}

type assetServer struct {
	files  fs.FS
	minify bool
}

func (srv assetServer) serve(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(srv.files, path.Join(publicDir, path.Clean(name)))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		mediatype := mime.TypeByExtension(path.Ext(name))
		if mediatype == "" {
			mediatype = "application/octet-stream"
		}
		if srv.minify {
			if min, err := minifier().Bytes(mediatype, body); err == nil {
				body = min
			} else if err != minify.ErrNotExist {
				log.Warnf("Could not minify %q: %v", name, err)
			}
		}

		w.Header().Set("Content-Type", mediatype)
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.Write(body)
	}
}

func minifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.Add("text/javascript", &js.Minifier{})
	return m
}
