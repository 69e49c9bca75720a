package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "mylibrary.LibraryService"

// Full method names, used as keys by the server's access table.
const (
	MethodSignIn         = "/" + ServiceName + "/SignIn"
	MethodWhoAmI         = "/" + ServiceName + "/WhoAmI"
	MethodListWriters    = "/" + ServiceName + "/ListWriters"
	MethodRegisterWriter = "/" + ServiceName + "/RegisterWriter"
	MethodRemoveWriter   = "/" + ServiceName + "/RemoveWriter"
	MethodListBooks      = "/" + ServiceName + "/ListBooks"
	MethodPublishBook    = "/" + ServiceName + "/PublishBook"
	MethodRequestUpload  = "/" + ServiceName + "/RequestUpload"
	MethodDocumentURL    = "/" + ServiceName + "/DocumentURL"
)

// LibraryServiceServer is implemented by the server transport.
type LibraryServiceServer interface {
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	WhoAmI(context.Context, *Empty) (*WhoAmIResponse, error)
	ListWriters(context.Context, *Empty) (*ListWritersResponse, error)
	RegisterWriter(context.Context, *RegisterWriterRequest) (*Writer, error)
	RemoveWriter(context.Context, *RemoveWriterRequest) (*Empty, error)
	ListBooks(context.Context, *ListBooksRequest) (*ListBooksResponse, error)
	PublishBook(context.Context, *PublishBookRequest) (*Book, error)
	RequestUpload(context.Context, *RequestUploadRequest) (*RequestUploadResponse, error)
	DocumentURL(context.Context, *DocumentURLRequest) (*DocumentURLResponse, error)
}

func RegisterLibraryServiceServer(s grpc.ServiceRegistrar, srv LibraryServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](name string, call func(LibraryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LibraryServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LibraryServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LibraryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SignIn", LibraryServiceServer.SignIn),
		unary("WhoAmI", LibraryServiceServer.WhoAmI),
		unary("ListWriters", LibraryServiceServer.ListWriters),
		unary("RegisterWriter", LibraryServiceServer.RegisterWriter),
		unary("RemoveWriter", LibraryServiceServer.RemoveWriter),
		unary("ListBooks", LibraryServiceServer.ListBooks),
		unary("PublishBook", LibraryServiceServer.PublishBook),
		unary("RequestUpload", LibraryServiceServer.RequestUpload),
		unary("DocumentURL", LibraryServiceServer.DocumentURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mylibrary/library.json",
}

// LibraryServiceClient is the client side of the service.
type LibraryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLibraryServiceClient(cc grpc.ClientConnInterface) *LibraryServiceClient {
	return &LibraryServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LibraryServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SignInResponse, error) {
	return invoke[SignInResponse](ctx, c.cc, MethodSignIn, in, opts)
}

func (c *LibraryServiceClient) WhoAmI(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke[WhoAmIResponse](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *LibraryServiceClient) ListWriters(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListWritersResponse, error) {
	return invoke[ListWritersResponse](ctx, c.cc, MethodListWriters, in, opts)
}

func (c *LibraryServiceClient) RegisterWriter(ctx context.Context, in *RegisterWriterRequest, opts ...grpc.CallOption) (*Writer, error) {
	return invoke[Writer](ctx, c.cc, MethodRegisterWriter, in, opts)
}

func (c *LibraryServiceClient) RemoveWriter(ctx context.Context, in *RemoveWriterRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRemoveWriter, in, opts)
}

func (c *LibraryServiceClient) ListBooks(ctx context.Context, in *ListBooksRequest, opts ...grpc.CallOption) (*ListBooksResponse, error) {
	return invoke[ListBooksResponse](ctx, c.cc, MethodListBooks, in, opts)
}

func (c *LibraryServiceClient) PublishBook(ctx context.Context, in *PublishBookRequest, opts ...grpc.CallOption) (*Book, error) {
	return invoke[Book](ctx, c.cc, MethodPublishBook, in, opts)
}

func (c *LibraryServiceClient) RequestUpload(ctx context.Context, in *RequestUploadRequest, opts ...grpc.CallOption) (*RequestUploadResponse, error) {
	return invoke[RequestUploadResponse](ctx, c.cc, MethodRequestUpload, in, opts)
}

func (c *LibraryServiceClient) DocumentURL(ctx context.Context, in *DocumentURLRequest, opts ...grpc.CallOption) (*DocumentURLResponse, error) {
	return invoke[DocumentURLResponse](ctx, c.cc, MethodDocumentURL, in, opts)
}
