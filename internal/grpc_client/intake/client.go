package intake_sdk

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/JoeShih716/go-platform-automation/api/automationrpc"
)

// Client 封裝了後台對工作受理服務的 RPC 呼叫
type Client struct {
	rpcClient automationrpc.AutomationRPCClient
}

// NewClient 建立受理服務 RPC 客戶端
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{
		rpcClient: automationrpc.NewAutomationRPCClient(conn),
	}
}

// Dial 建立連線 (叢集內部使用，不加密)
func Dial(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
}

// Submit 送出工作，回傳 job id
func (c *Client) Submit(ctx context.Context, req *automationrpc.SubmitJobRequest) (string, error) {
	resp, err := c.rpcClient.SubmitJob(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.JobId, nil
}

// GetJob 查詢工作
func (c *Client) GetJob(ctx context.Context, jobID string) (*automationrpc.Job, error) {
	resp, err := c.rpcClient.GetJob(ctx, &automationrpc.GetJobRequest{JobId: jobID})
	if err != nil {
		return nil, err
	}
	return resp.Job, nil
}

// GetRecord 查詢紀錄狀態
func (c *Client) GetRecord(ctx context.Context, jobID string) (*automationrpc.GetRecordResponse, error) {
	return c.rpcClient.GetRecord(ctx, &automationrpc.GetRecordRequest{JobId: jobID})
}
