package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// MockAuthClient 第三方登录接口模拟
type MockAuthClient struct {
	MockAuthProvider
}

func (m *MockAuthClient) ProviderID() string {
	return m.Called().String(0)
}

func (m *MockAuthClient) ProviderToken(ctx context.Context, req cloudbase.ProviderTokenRequest, deviceID string) (*cloudbase.ProviderGrant, error) {
	args := m.Called(ctx, req, deviceID)
	grant, _ := args.Get(0).(*cloudbase.ProviderGrant)
	return grant, args.Error(1)
}

func (m *MockAuthClient) SignInWithProvider(ctx context.Context, req cloudbase.SignInRequest, deviceID string) (map[string]interface{}, error) {
	args := m.Called(ctx, req, deviceID)
	result, _ := args.Get(0).(map[string]interface{})
	return result, args.Error(1)
}

func TestIOSWechatSignin(t *testing.T) {
	ctx := context.Background()

	t.Run("授权码登录", func(t *testing.T) {
		client := new(MockAuthClient)
		f := newFixture(t, Options{Auth: client})

		client.On("ProviderID").Return("wechat")
		client.On("ProviderToken", mock.Anything, cloudbase.ProviderTokenRequest{ProviderID: "wechat", ProviderCode: "code-1"}, "dev").
			Return(&cloudbase.ProviderGrant{
				ProviderToken:   "pt",
				ProviderProfile: map[string]interface{}{"sub": "wx-uid", "meta": map[string]interface{}{"unionid": "u-ios"}},
			}, nil)
		client.On("SignInWithProvider", mock.Anything, cloudbase.SignInRequest{ProviderID: "wechat", ProviderToken: "pt", SyncProfile: true}, "dev").
			Return(map[string]interface{}{"access_token": "at"}, nil)
		client.On("UserMe", mock.Anything, "at").Return(cloudbase.AuthProfile{"sub": "cb-1"}, nil)

		res, err := f.svc.Auth.IOSWechatSignin(ctx, IOSSigninInput{ProviderCode: "code-1", DeviceID: "dev"})
		require.NoError(t, err)
		assert.Equal(t, "at", res.Token["access_token"])
		assert.NotZero(t, res.UserID)
		assert.Equal(t, ModeIdentity, res.IdentityMode)
		assert.Equal(t, "ios_wx-uid", res.Profile.OpenID)
		client.AssertExpectations(t)

		link, err := f.store.IdentityLinks.FindByProvider(ctx, "wechat_ios", "wx-uid")
		require.NoError(t, err)
		require.NotNil(t, link)
		require.NotNil(t, link.UnionID)
		assert.Equal(t, "u-ios", *link.UnionID)

		t.Run("同一 unionid 的小程序身份归并到同一用户", func(t *testing.T) {
			mini, err := f.svc.Resolver.ResolveMini(ctx, MiniClaim{OpenID: "o-mini", UnionID: "u-ios"})
			require.NoError(t, err)
			assert.Equal(t, res.UserID, mini.UserID)
		})
	})

	t.Run("缺少授权码", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("ProviderID").Return("wechat")
		f := newFixture(t, Options{Auth: client})

		_, err := f.svc.Auth.IOSWechatSignin(ctx, IOSSigninInput{})
		assert.ErrorIs(t, err, ErrMissingSigninCode)
	})

	t.Run("登录结果缺少 access_token", func(t *testing.T) {
		client := new(MockAuthClient)
		f := newFixture(t, Options{Auth: client})
		client.On("SignInWithProvider", mock.Anything, mock.Anything, mock.Anything).Return(map[string]interface{}{}, nil)

		_, err := f.svc.Auth.IOSWechatSignin(ctx, IOSSigninInput{ProviderID: "wechat", ProviderToken: "pt"})
		assert.ErrorIs(t, err, ErrIOSSigninFailed)
	})

	t.Run("无法确定身份", func(t *testing.T) {
		client := new(MockAuthClient)
		f := newFixture(t, Options{Auth: client})
		client.On("SignInWithProvider", mock.Anything, mock.Anything, mock.Anything).Return(map[string]interface{}{"access_token": "at"}, nil)
		client.On("UserMe", mock.Anything, "at").Return(cloudbase.AuthProfile{}, nil)

		_, err := f.svc.Auth.IOSWechatSignin(ctx, IOSSigninInput{ProviderID: "wechat", ProviderToken: "pt"})
		assert.ErrorIs(t, err, ErrIdentityIncomplete)
	})
}
