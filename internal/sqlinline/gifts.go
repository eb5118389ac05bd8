package sqlinline

const QInsertGift = `--sql 8d0992c7-7b79-4ca8-bd24-0ba8217ef3f2
insert into gifts(id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::bigint, $6::text, $7::text, 'active', $8::timestamptz);
`

const QGetGift = `--sql 43326eae-11dc-4074-a0a4-ba62c89fbb88
select id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at
from gifts
where id = $1::uuid;
`

const QListGiftsByWedding = `--sql 3c8b1efc-2d73-4116-8f95-1e0ad9093a64
select id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at
from gifts
where wedding_id = $1::uuid
order by created_at asc, id asc;
`

const QRenameGift = `--sql 241d4902-ee78-48c4-8bf4-22f81ee44dc0
update gifts
set name = $2::text, description = $3::text
where id = $1::uuid;
`

const QUpdateGiftTarget = `--sql 6d81267b-abb1-41d4-942c-91f5456462d9
update gifts
set target_minor = $2::bigint, currency = $3::text
where id = $1::uuid;
`

const QArchiveGift = `--sql 9e87977b-b44a-4395-a4b4-8b1536fdf98a
update gifts
set status = 'archived'
where id = $1::uuid and status = 'active';
`

const QDeleteGift = `--sql 20686f72-4024-4dd5-be86-ec0d5f470f68
delete from gifts
where id = $1::uuid;
`
