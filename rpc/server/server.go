// Package server provides the icon api server.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/iconic/log"
	"github.com/anyswap/iconic/params"
	"github.com/anyswap/iconic/rpc/restapi"
	"github.com/anyswap/iconic/rpc/rpcapi"
)

// StartAPIServer start api server, callers should Close the returned server
func StartAPIServer(apiServer *params.APIServerConfig) *http.Server {
	apiPort := apiServer.Port
	allowedOrigins := apiServer.AllowedOrigins

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins, "maxRequestsLimit", apiServer.MaxRequestsLimit)
	svr := &http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      NewHandler(apiServer),
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
	return svr
}

// NewHandler router wrapped with cors and rate limiting
func NewHandler(apiServer *params.APIServerConfig) http.Handler {
	var handler http.Handler = initRouter()

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(apiServer.AllowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(apiServer.AllowedOrigins),
		)
	}
	handler = handlers.CORS(corsOptions...)(handler)

	if apiServer.MaxRequestsLimit > 0 {
		lmt := tollbooth.NewLimiter(float64(apiServer.MaxRequestsLimit), nil)
		lmt.SetMessage("too many requests")
		handler = tollbooth.LimitHandler(lmt, handler)
	}
	return handler
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(new(rpcapi.IconAPI), "icon")

	r.Handle("/rpc", rpcserver)
	r.HandleFunc("/serverinfo", restapi.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/versioninfo", restapi.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/icon/{address}/cid", restapi.GetIconCidHandler).Methods("GET")
	r.HandleFunc("/icon/{address}", restapi.GetIconHandler).Methods("GET")
	r.HandleFunc("/icon/{address}", restapi.PostIconHandler).Methods("POST")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}
	methodsExcluesGetAndPost := []string{"HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

	r.HandleFunc("/serverinfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/versioninfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/icon/{address}/cid", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/icon/{address}", warnHandler).Methods(methodsExcluesGetAndPost...)

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}
