package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const BookingsServiceName = "salonbook.v1.BookingsService"

type BookingsServiceServer interface {
	CreateBooking(context.Context, *CreateBookingRequest) (*CreateBookingResponse, error)
	UpdateBookingStatus(context.Context, *UpdateBookingStatusRequest) (*UpdateBookingStatusResponse, error)
	ListSalonBookings(context.Context, *ListSalonBookingsRequest) (*ListBookingsResponse, error)
	ListBookingsByDay(context.Context, *ListBookingsByDayRequest) (*ListBookingsResponse, error)
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&bookingsServiceDesc, srv)
}

var bookingsServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingsServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBooking", Handler: unaryHandler("CreateBooking", BookingsServiceServer.CreateBooking)},
		{MethodName: "UpdateBookingStatus", Handler: unaryHandler("UpdateBookingStatus", BookingsServiceServer.UpdateBookingStatus)},
		{MethodName: "ListSalonBookings", Handler: unaryHandler("ListSalonBookings", BookingsServiceServer.ListSalonBookings)},
		{MethodName: "ListBookingsByDay", Handler: unaryHandler("ListBookingsByDay", BookingsServiceServer.ListBookingsByDay)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "salonbook/v1/bookings",
}

func fullMethod(method string) string {
	return "/" + BookingsServiceName + "/" + method
}

func unaryHandler[Req, Resp any](method string, call func(BookingsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingsServiceServer), ctx, req.(*Req))
		})
	}
}

// BookingsClient calls BookingsService using the JSON codec.
type BookingsClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingsClient(cc grpc.ClientConnInterface) *BookingsClient {
	return &BookingsClient{cc: cc}
}

func (c *BookingsClient) CreateBooking(ctx context.Context, in *CreateBookingRequest, opts ...grpc.CallOption) (*CreateBookingResponse, error) {
	out := new(CreateBookingResponse)
	if err := c.invoke(ctx, "CreateBooking", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingsClient) UpdateBookingStatus(ctx context.Context, in *UpdateBookingStatusRequest, opts ...grpc.CallOption) (*UpdateBookingStatusResponse, error) {
	out := new(UpdateBookingStatusResponse)
	if err := c.invoke(ctx, "UpdateBookingStatus", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingsClient) ListSalonBookings(ctx context.Context, in *ListSalonBookingsRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	out := new(ListBookingsResponse)
	if err := c.invoke(ctx, "ListSalonBookings", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingsClient) ListBookingsByDay(ctx context.Context, in *ListBookingsByDayRequest, opts ...grpc.CallOption) (*ListBookingsResponse, error) {
	out := new(ListBookingsResponse)
	if err := c.invoke(ctx, "ListBookingsByDay", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingsClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}
