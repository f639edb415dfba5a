package ecs

import (
	"reflect"
	"testing"
)

type testPlayback struct{ Current string }
type testAction struct{ Phase int }

// TestEntityLifecycle 测试实体的创建、标记删除和清理
func TestEntityLifecycle(t *testing.T) {
	em := NewEntityManager()

	a := em.CreateEntity()
	b := em.CreateEntity()
	if a == b {
		t.Fatal("实体ID应该唯一")
	}
	if !em.Exists(a) || !em.Exists(b) {
		t.Fatal("新创建的实体应该存在")
	}

	// 标记删除不立即生效
	em.DestroyEntity(a)
	if !em.Exists(a) {
		t.Error("DestroyEntity 之后、RemoveMarkedEntities 之前实体仍应存在")
	}

	em.RemoveMarkedEntities()
	if em.Exists(a) {
		t.Error("RemoveMarkedEntities 之后实体应被删除")
	}
	if !em.Exists(b) {
		t.Error("未标记的实体不应被删除")
	}
}

// TestComponentOperations 测试组件的添加、获取、覆盖和移除
func TestComponentOperations(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	ecsAdd := func(c interface{}) { em.AddComponent(id, c) }

	ecsAdd(&testPlayback{Current: "idle"})
	ecsAdd(&testAction{Phase: 1})

	pb, ok := GetComponent[*testPlayback](em, id)
	if !ok || pb.Current != "idle" {
		t.Fatalf("期望获取到 playback 组件, got ok=%v", ok)
	}

	// 同类型组件覆盖
	ecsAdd(&testPlayback{Current: "jump"})
	pb, _ = GetComponent[*testPlayback](em, id)
	if pb.Current != "jump" {
		t.Errorf("期望组件被覆盖为 jump, got %s", pb.Current)
	}

	// 移除组件
	RemoveComponent[*testAction](em, id)
	if HasComponent[*testAction](em, id) {
		t.Error("移除后不应再拥有 action 组件")
	}
	if !HasComponent[*testPlayback](em, id) {
		t.Error("移除 action 不应影响 playback 组件")
	}
}

// TestGenericQueries 测试泛型查询与反射查询结果一致
func TestGenericQueries(t *testing.T) {
	em := NewEntityManager()

	both := em.CreateEntity()
	em.AddComponent(both, &testPlayback{})
	em.AddComponent(both, &testAction{})

	onlyPlayback := em.CreateEntity()
	em.AddComponent(onlyPlayback, &testPlayback{})

	em.CreateEntity() // 无组件实体

	with1 := GetEntitiesWith1[*testPlayback](em)
	if len(with1) != 2 {
		t.Errorf("期望 2 个拥有 playback 的实体, got %d", len(with1))
	}

	with2 := GetEntitiesWith2[*testPlayback, *testAction](em)
	if len(with2) != 1 || with2[0] != both {
		t.Errorf("期望只有实体 %d 同时拥有两个组件, got %v", both, with2)
	}

	// 与反射版本对比
	reflected := em.GetEntitiesWith(
		reflect.TypeOf(&testPlayback{}),
		reflect.TypeOf(&testAction{}),
	)
	if len(reflected) != len(with2) {
		t.Errorf("泛型与反射查询结果不一致: %v vs %v", with2, reflected)
	}
}

// TestGetComponent_MissingEntity 测试对不存在实体的查询
func TestGetComponent_MissingEntity(t *testing.T) {
	em := NewEntityManager()

	if _, ok := GetComponent[*testPlayback](em, EntityID(42)); ok {
		t.Error("不存在的实体不应返回组件")
	}
	if em.Exists(0) {
		t.Error("ID 0 保留为无效ID")
	}
}
