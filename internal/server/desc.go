package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "medocs.v1.Documents"

// DocumentsServer is the server API for the Documents service. Requests and
// responses are google.protobuf.Struct messages.
type DocumentsServer interface {
	Process(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Search(context.Context, *structpb.Struct) (*structpb.Struct, error)
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Export(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterDocumentsServer(s grpc.ServiceRegistrar, srv DocumentsServer) {
	s.RegisterService(&Documents_ServiceDesc, srv)
}

type unaryMethod func(DocumentsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DocumentsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DocumentsServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var Documents_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentsServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Process", DocumentsServer.Process),
		unaryHandler("Search", DocumentsServer.Search),
		unaryHandler("List", DocumentsServer.List),
		unaryHandler("Get", DocumentsServer.Get),
		unaryHandler("Export", DocumentsServer.Export),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "medocs/v1/documents.proto",
}

// DocumentsClient calls the Documents service over conn.
type DocumentsClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentsClient(cc grpc.ClientConnInterface) *DocumentsClient {
	return &DocumentsClient{cc: cc}
}

// Call invokes method (e.g. "Search") with req.
func (c *DocumentsClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
